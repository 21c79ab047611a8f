package research

import (
	"math"

	"StockSleuth/internal/domain/models"
)

// ComputeMovement derives the day's movement from OHLCV once at pipeline
// entry. Significance boundaries are exclusive: exactly 1% is still minor,
// exactly 3% is still moderate.
func ComputeMovement(ohlc models.OHLCData, referenceVolume float64) models.PriceMovement {
	changePercent := 0.0
	if ohlc.Open > 0 {
		changePercent = (ohlc.Close - ohlc.Open) / ohlc.Open * 100
	}
	volumeRatio := 0.0
	if referenceVolume > 0 {
		volumeRatio = ohlc.Volume / referenceVolume
	}
	return models.PriceMovement{
		ChangePercent: changePercent,
		VolumeRatio:   volumeRatio,
		Significance:  classifySignificance(changePercent),
	}
}

func classifySignificance(changePercent float64) string {
	abs := math.Abs(changePercent)
	switch {
	case abs > 3:
		return models.SignificanceMajor
	case abs > 1:
		return models.SignificanceModerate
	default:
		return models.SignificanceMinor
	}
}
