package jobs

import (
	"sync"

	"github.com/example/yasconvert/internal/model"
)

// Registry tracks live conversion jobs. Records are created by the
// coordinator, mutated by the job's goroutine, and consumed by the
// first poll that observes a terminal state.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*model.Job)}
}

func (r *Registry) Create(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &model.Job{
		ID:     id,
		Status: model.JobRunning,
	}
}

func (r *Registry) SetProgress(id string, pct int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Progress = pct
	}
}

func (r *Registry) Append(id string, res model.ItemResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Results = append(job.Results, res)
	}
}

// Complete drives the job terminal: progress 100, status completed.
func (r *Registry) Complete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.Progress = 100
		job.Status = model.JobCompleted
	}
}

// Get returns the job state as observed at call time. An unknown id
// yields a synthetic terminal view so a poller that arrives after the
// record was consumed sees a harmless completed state. A terminal
// record is returned once and removed; subsequent polls get the
// synthetic view.
func (r *Registry) Get(id string) model.JobView {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return model.JobView{
			Status:   model.JobCompleted,
			Progress: 100,
			Results:  []model.ItemResultView{},
		}
	}

	view := snapshot(job)
	if job.Status != model.JobRunning {
		delete(r.jobs, id)
	}
	return view
}

func snapshot(job *model.Job) model.JobView {
	results := make([]model.ItemResultView, 0, len(job.Results))
	for _, res := range job.Results {
		results = append(results, res.View())
	}
	return model.JobView{
		Status:   job.Status,
		Progress: job.Progress,
		Results:  results,
	}
}
