/*
Package scheduler submits callables onto a threadpool.Pool at fixed times,
on intervals, or on cron schedules.

The scheduler owns no workers. A tick loop checks for due entries and
hands each one to the pool with Submit, so scheduled work shares the pool's
FIFO queue, rate limit and metrics with everything else submitted to it.

Basic Usage:

	pool := threadpool.New()
	pool.Start(4)
	defer pool.Finish()

	s, err := scheduler.New(pool, scheduler.Config{})
	if err != nil {
		log.Fatal(err)
	}
	s.Start()
	defer func() { <-s.Stop() }()

	s.ScheduleAfter("warmup", warmCaches, 5*time.Second)
	s.ScheduleRepeating("heartbeat", sendHeartbeat, 30*time.Second)
	s.ScheduleCron("report", "0 9 * * MON-FRI", buildReport)

Cron Expressions:

Both five-field and six-field (leading seconds) expressions are accepted,
as are descriptors such as @hourly and @every 90s. Next run times are
computed in Config.Location.

Results:

Every submission produces a future. Config.OnSubmit receives it together
with the entry ID; Config.OnError receives submission failures, which
happen once the pool has been finished. Failed runs can be retried in
place by wrapping the callable with Backoff.
*/
package scheduler
