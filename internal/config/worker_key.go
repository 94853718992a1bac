package config

type WorkerKeyStruct struct {
	ReportProgressQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ReportProgressQueue: "report_progress_queue",
}
