package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice (faktura) existe en el esquema solo como dependiente de una Collaboration:
// mientras haya facturas, la colaboración no puede borrarse.
type Invoice struct {
	ID              int64
	CollaborationID int64
	CustomsCost     decimal.Decimal
	TotalImportCost decimal.Decimal
	IssuedAt        time.Time
}
