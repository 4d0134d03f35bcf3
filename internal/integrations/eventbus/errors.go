package eventbus

import "errors"

var (
	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("eventbus: failed to publish event")

	// ErrBreakerOpen возвращается, пока circuit breaker разомкнут
	ErrBreakerOpen = errors.New("eventbus: circuit breaker is open")

	ErrEncode = errors.New("eventbus: failed to encode event")
)
