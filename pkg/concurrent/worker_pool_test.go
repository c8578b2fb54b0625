package concurrent

import (
	"sort"
	"testing"
)

func TestWorkerPoolCollectsEveryResult(t *testing.T) {
	const jobs = 200

	wp := NewWorkerPool[int, int](8, jobs)
	for i := 0; i < jobs; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Start(func(job int) int { return job * job })
	go wp.Wait()

	got := make([]int, 0, jobs)
	for res := range wp.CollectResults() {
		got = append(got, res)
	}

	if len(got) != jobs {
		t.Fatalf("collected %d results, want %d", len(got), jobs)
	}
	sort.Ints(got)
	for i := 0; i < jobs; i++ {
		if got[i] != i*i {
			t.Fatalf("result %d = %d, want %d", i, got[i], i*i)
		}
	}
}

func TestWorkerPoolSurvivesPanickingJobs(t *testing.T) {
	wp := NewWorkerPool[int, int](2, 10)
	for i := 0; i < 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Start(func(job int) int {
		if job%2 == 0 {
			panic("even jobs blow up")
		}
		return job
	})
	go wp.Wait()

	got := make([]int, 0, 5)
	for res := range wp.CollectResults() {
		got = append(got, res)
	}

	if len(got) != 5 {
		t.Fatalf("collected %d results, want the 5 odd survivors", len(got))
	}
	for _, v := range got {
		if v%2 == 0 {
			t.Errorf("a panicking job produced result %d", v)
		}
	}
}
