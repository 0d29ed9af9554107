package ports

import "time"

// Recorder registra métricas de cada ejecución.
type Recorder interface {
	TradesExported(n int)
	FileWritten(kind string)
	FetchDuration(d time.Duration)
	RunCompleted(command string)
}
