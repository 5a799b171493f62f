package robot

// EventEmitter receives lifecycle events from a worker.
type EventEmitter interface {
	EmitReportSent(robotID string, r *Report)
	EmitReportFailed(robotID string, r *Report, err error)
	EmitStockReplenished(robotID, productID string, level float64)
	EmitBatteryRecharged(robotID string)
	EmitIterationFailed(robotID string, err error)
}

type nopEmitter struct{}

func (nopEmitter) EmitReportSent(string, *Report) {}
func (nopEmitter) EmitReportFailed(string, *Report, error) {}
func (nopEmitter) EmitStockReplenished(string, string, float64) {}
func (nopEmitter) EmitBatteryRecharged(string) {}
func (nopEmitter) EmitIterationFailed(string, error) {}
