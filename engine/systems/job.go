package systems

import (
	"sync"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// JobSystem is a fixed pool of workers draining a shared job queue.
// Each job runs on exactly one worker.
type JobSystem struct {
	numWorkers int
	jobQueue   chan metadata.JobTask
	wg         sync.WaitGroup
	pending    sync.WaitGroup
	closeOnce  sync.Once
}

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, core.ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, core.ErrNegativeChannel
	}

	jq := make(chan metadata.JobTask, channelSize)
	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   jq,
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job metadata.JobTask) {
	defer js.pending.Done()

	result, err := job.OnStart(job.InputParams)
	if err != nil {
		core.LogError("%s", err)
		if job.OnFailure != nil {
			job.OnFailure(job.InputParams, err)
		}
	} else if job.OnComplete != nil {
		job.OnComplete(result)
	}

	// Call the completion callback if set
	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
	})
	js.wg.Wait()
	return nil
}

/**
 * @brief Blocks until every job submitted so far has run.
 */
func (js *JobSystem) Wait() {
	js.pending.Wait()
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param info The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt metadata.JobTask) {
	js.pending.Add(1)
	js.jobQueue <- jt
}
