package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-PGBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на получение бронирований пользователя или владельца
type ListBookingsRequest struct {
	Actor   domain.Actor
	OwnerID string  // Для выборки владельца
	UserID  string  // Для выборки пользователя
	Status  *string // Фильтр по статусу (опционально)
}

// Response модели

// ReviewResponse отзыв о проживании
type ReviewResponse struct {
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	OwnerID    string `json:"ownerId"`
	PropertyID string `json:"propertyId"`
	Occupants  int    `json:"occupants"`
	Status     string `json:"status"`

	// Денормализованные данные
	PropertyName string `json:"propertyName"`
	UserName     string `json:"userName"`

	RentAmount      decimal.Decimal `json:"rentAmount"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`

	CheckIn  *string `json:"checkIn,omitempty"`  // "2025-10-15"
	CheckOut *string `json:"checkOut,omitempty"` // ISO 8601 format
	DueDate  string  `json:"dueDate"`            // "2025-10-15"

	Review *ReviewResponse `json:"review,omitempty"`

	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StayHistoryEntryResponse запись истории проживаний
type StayHistoryEntryResponse struct {
	BookingID    string    `json:"bookingId"`
	PropertyID   string    `json:"propertyId"`
	PropertyName string    `json:"propertyName"`
	CheckIn      *string   `json:"checkIn,omitempty"`
	CheckOut     time.Time `json:"checkOut"`
}

// StayHistoryResponse история проживаний пользователя
type StayHistoryResponse struct {
	Stays []StayHistoryEntryResponse `json:"stays"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		OwnerID:         b.OwnerID,
		PropertyID:      b.PropertyID,
		Occupants:       b.Occupants,
		Status:          string(b.Status),
		PropertyName:    b.PropertyName,
		UserName:        b.UserName,
		RentAmount:      b.RentAmount,
		SecurityDeposit: b.SecurityDeposit,
		TotalAmount:     b.TotalAmount,
		CheckIn:         formatDate(b.CheckIn),
		DueDate:         b.DueDate.Format(domain.DateFormat),
		ConfirmedAt:     b.ConfirmedAt,
		RejectedAt:      b.RejectedAt,
		CancelledAt:     b.CancelledAt,
		CompletedAt:     b.CompletedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.CheckOut != nil {
		checkOut := b.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &checkOut
	}

	if b.Review != nil {
		resp.Review = &ReviewResponse{
			Text:      b.Review.Text,
			Rating:    b.Review.Rating,
			CreatedAt: b.Review.CreatedAt,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainStayHistory конвертирует историю проживаний в DTO
func FromDomainStayHistory(entries []*domain.StayHistoryEntry) *StayHistoryResponse {
	resp := &StayHistoryResponse{
		Stays: make([]StayHistoryEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		resp.Stays = append(resp.Stays, StayHistoryEntryResponse{
			BookingID:    e.BookingID,
			PropertyID:   e.PropertyID,
			PropertyName: e.PropertyName,
			CheckIn:      formatDate(e.CheckIn),
			CheckOut:     e.CheckOut,
		})
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
