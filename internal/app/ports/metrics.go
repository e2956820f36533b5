package ports

type CommandMetrics interface {
	RecordSuccess(command string)
	RecordRejected(code string)
	RecordFailure()
	RecordTicks(n int)
}
