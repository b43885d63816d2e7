package models

import (
	"time"
)

// UrgencyStatus clasifica el feed de vencimientos por días restantes
// (eje distinto al de vida útil total del monitor principal).
type UrgencyStatus string

const (
	UrgencyExpired  UrgencyStatus = "expired"
	UrgencyCritical UrgencyStatus = "critical"
	UrgencyWarning  UrgencyStatus = "warning"
	UrgencyNormal   UrgencyStatus = "normal"
	UrgencyUnknown  UrgencyStatus = "unknown"
)

// TimelineRecord representa una fila del extracto Vencimentos_SAP más los
// campos calculados. Después de la carga solo se retienen filas con
// FreeQuantity > 0.
type TimelineRecord struct {
	Plant               string     `json:"plant"`
	Depot               string     `json:"depot"`
	MaterialDescription string     `json:"material_description"`
	MaterialCode        string     `json:"material_code"`
	Batch               string     `json:"batch"`
	ExpirationDate      *time.Time `json:"expiration_date,omitempty"`
	ProductionDate      *time.Time `json:"production_date,omitempty"`
	FreeQuantity        *float64   `json:"free_quantity,omitempty"`
	RestrictedQuantity  *float64   `json:"restricted_quantity,omitempty"`

	DaysUntilExpiration *float64      `json:"days_until_expiration,omitempty"`
	UrgencyStatus       UrgencyStatus `json:"urgency_status"`
	// UrgencyLevel ordena por urgencia (1 = más urgente) para presentación.
	UrgencyLevel int `json:"urgency_level"`
}
