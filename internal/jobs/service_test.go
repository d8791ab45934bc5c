package jobs

import (
	"context"
	"testing"
)

type recordedJob struct {
	name string
	runs int
	err  error
}

func (j *recordedJob) Name() string { return j.name }

func (j *recordedJob) Run(context.Context) error {
	j.runs++
	return j.err
}

type fakeLock struct {
	acquired bool
	releases int
}

func (l *fakeLock) Acquire(context.Context) (bool, error) { return l.acquired, nil }

func (l *fakeLock) Release(context.Context) error {
	l.releases++
	return nil
}

func TestRegistrySkipsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &recordedJob{name: "a"})
	registry.Register(nil)
	registry.Register(&recordedJob{name: "b"})

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name() != "a" || jobs[1].Name() != "b" {
		t.Fatalf("jobs out of order: %v, %v", jobs[0].Name(), jobs[1].Name())
	}
}

func TestRunCycleExecutesJobsUnderLock(t *testing.T) {
	job := &recordedJob{name: "sweep"}
	lock := &fakeLock{acquired: true}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected 1 run, got %d", job.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("lock not released, releases=%d", lock.releases)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &recordedJob{name: "sweep"}
	lock := &fakeLock{acquired: false}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle returned error: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran without the lock")
	}
	if lock.releases != 0 {
		t.Fatalf("lock released without being held")
	}
}
