package models

// Requests for research HTTP endpoints. Defined in domain for consistency and reuse.

type OHLCData struct {
	Open   float64 `json:"open" validate:"required,gt=0"`
	High   float64 `json:"high" validate:"gte=0"`
	Low    float64 `json:"low" validate:"gte=0"`
	Close  float64 `json:"close" validate:"required,gt=0"`
	Volume float64 `json:"volume" validate:"gte=0"`
}

type ResearchRequest struct {
	Symbol string   `json:"symbol" validate:"required,min=1,max=10"`
	Date   string   `json:"date" validate:"required,datetime=2006-01-02"`
	OHLC   OHLCData `json:"ohlc" validate:"required"`
}
