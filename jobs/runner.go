package jobs

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ZuInnoTe/ZuStDPipe/arrowcodec"
	"github.com/ZuInnoTe/ZuStDPipe/errs"
	"github.com/ZuInnoTe/ZuStDPipe/modules"
	"github.com/ZuInnoTe/ZuStDPipe/pipeline"
)

// nowFunc is swappable in tests so JobRecord timestamps are deterministic.
var nowFunc = timeNow

// Runner walks a pipeline's ordered stages, obtaining a fresh module
// instance for each process and threading each stage's result into the
// next. It holds the one Module Manager shared by every job it runs; a
// Runner is not safe for concurrent RunJob calls (neither is the Module
// Manager it wraps), matching the single-threaded-per-job scheduling model.
type Runner struct {
	mu      sync.Mutex
	modules *modules.Manager
	log     zerolog.Logger

	jobs map[string]*JobRecord
}

// NewRunner builds a Runner over an already-constructed Module Manager.
func NewRunner(moduleManager *modules.Manager, log zerolog.Logger) *Runner {
	return &Runner{
		modules: moduleManager,
		log:     log,
		jobs:    make(map[string]*JobRecord),
	}
}

// RunJob validates that job.Pipeline exists in pipelines, assigns a fresh
// job id, and executes every stage of the pipeline in order. The first
// failing stage aborts the run; there is no retry and no partial commit —
// the bytes a failed stage would have produced are simply never threaded
// forward.
func (r *Runner) RunJob(pipelines map[string]pipeline.Definition, job JobDefinition) (string, *errs.JobRunError) {
	pipelineDef, ok := pipelines[job.Pipeline]
	if !ok {
		return "", errs.NewJobValidationError(errs.NewPipelineForJobNotFound("could not find pipeline %q for job", job.Pipeline))
	}

	jobID := uuid.New().String()
	record := &JobRecord{ID: jobID, Pipeline: job.Pipeline, Status: StatusPending, StartedAt: nowFunc()}
	r.record(record)

	log := r.log.With().Str("job_id", jobID).Str("pipeline", job.Pipeline).Logger()
	record.Status = StatusRunning

	var payload []byte
	for stageIdx, stage := range pipelineDef.Process {
		for processName, processDef := range stage {
			stageLog := log.With().Str("process", processName).Int("stage", stageIdx).Logger()
			stageLog.Debug().Msg("running process")

			instance, modErr := r.modules.GetModuleInstance(processDef.Module.Type, processDef.Module.Name)
			if modErr != nil {
				runErr := errs.NewJobModuleDefinitionError(modErr)
				r.finish(record, runErr)
				return jobID, runErr
			}

			metaBytes, encErr := encodeMeta(processDef)
			if encErr != nil {
				instance.Close()
				runErr := errs.NewJobModuleDefinitionError(errs.NewModuleTypeNotFound("encoding parameters for %q: %s", processName, encErr))
				r.finish(record, runErr)
				return jobID, runErr
			}

			result, execErr := instance.ExecFunc(metaBytes, payload)
			instance.Close()
			if execErr != nil {
				runErr := errs.NewJobModuleInstantiationError(execErr)
				r.finish(record, runErr)
				return jobID, runErr
			}
			payload = result
		}
	}

	r.finish(record, nil)
	return jobID, nil
}

// Lookup returns the in-memory record for a previously run job id, if any.
func (r *Runner) Lookup(jobID string) (JobRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.jobs[jobID]
	if !ok {
		return JobRecord{}, false
	}
	return *rec, true
}

func (r *Runner) record(rec *JobRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[rec.ID] = rec
}

func (r *Runner) finish(rec *JobRecord, err *errs.JobRunError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.EndedAt = nowFunc()
	if err != nil {
		rec.Status = StatusFailed
		rec.Err = err
		return
	}
	rec.Status = StatusSucceeded
}

func encodeMeta(def pipeline.ProcessDefinition) ([]byte, error) {
	ordered := def.OrderedParameters()
	params := make([]arrowcodec.Param, len(ordered))
	for i, kv := range ordered {
		params[i] = arrowcodec.Param{Key: kv.Key, Value: kv.Value}
	}
	return arrowcodec.EncodeParameters(params)
}
