package property

import (
	"github.com/m04kA/SMC-PGBookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
