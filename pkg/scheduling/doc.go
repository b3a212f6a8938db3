/*
Package scheduling groups the task execution primitives of taskpool.

  - taskqueue: FIFO work queue shared by pool workers
  - threadpool: bounded pool of worker threads returning futures
  - scheduler: time, interval and cron based submission onto a pool

Thread Pool:

	pool := threadpool.New()
	pool.Start(4)
	defer pool.Finish()

	f, _ := threadpool.Submit(pool, func() (int, error) {
		return 42, nil
	})
	v, err := f.Get()

Scheduler:

	s, _ := scheduler.New(pool, scheduler.Config{})
	s.Start()
	defer func() { <-s.Stop() }()

	s.ScheduleCron("cleanup", "0 2 * * *", cleanup)

Components compose: the scheduler submits onto a pool, and the pool's
OnTaskComplete hook can feed a journal.
*/
package scheduling
