package tasks

// TaskSchedulerInterface is the part of the scheduler the HTTP layer uses to
// queue work next to the periodic refresh.
//
//	scheduler := NewScheduler(func() TaskInterface { return NewRefreshNewsTask(loader, opts) }, interval, 1)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewRefreshNewsTask(loader, forced))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	GetStats() Stats
}
