package analytics

import "time"

// SetClock fija el reloj del caso de uso en pruebas.
func (uc *ReportUseCase) SetClock(now func() time.Time) { uc.now = now }
