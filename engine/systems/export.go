package systems

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/meshbake/engine/assets"
	"github.com/spaghettifunk/meshbake/engine/assets/loaders"
	"github.com/spaghettifunk/meshbake/engine/assets/writers"
	"github.com/spaghettifunk/meshbake/engine/containers"
	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/exporter"
	"github.com/spaghettifunk/meshbake/engine/math"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
	"github.com/spaghettifunk/meshbake/engine/scene"
)

// ExportReport is the outcome of exporting one mesh document.
type ExportReport struct {
	Source   string
	Output   string
	Mesh     string
	Vertices int
	Indices  int
	Warnings int
	Errors   int
	Extents  math.Extents3D
	Elapsed  time.Duration
	Err      error
}

// historySize bounds the reports kept for Recent.
const historySize = 64

// ExportSystem runs the load, export and write pipeline for mesh documents.
type ExportSystem struct {
	outputDir string
	options   exporter.Options
	writer    writers.Writer
	assets    *assets.AssetManager
	jobs      *JobSystem
	metrics   *core.ExportMetrics
	logger    *log.Logger

	inFlight atomic.Int32

	mutex   sync.Mutex
	reports []*ExportReport
	recent  *containers.RingQueue[*ExportReport]
}

func NewExportSystem(cfg core.Config, am *assets.AssetManager, js *JobSystem) (*ExportSystem, error) {
	w, err := writers.ForFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return &ExportSystem{
		outputDir: cfg.Output.Dir,
		options:   exporter.OptionsFromConfig(cfg.Export),
		writer:    w,
		assets:    am,
		jobs:      js,
		metrics:   core.NewExportMetrics(),
		logger:    core.Logger("system", "export"),
		recent:    containers.NewRingQueue[*ExportReport](historySize),
	}, nil
}

// ExportFile exports one mesh document synchronously. Mesh level problems
// are counted in the report; only load and write failures return an error.
func (es *ExportSystem) ExportFile(path string) (*ExportReport, error) {
	report := &ExportReport{Source: path}
	clock := core.NewClock()
	clock.Start()

	res, err := es.assets.LoadAsset(path, metadata.ResourceTypeMesh, nil)
	if err != nil {
		return es.fail(report, err)
	}
	defer es.assets.UnloadAsset(res)

	asset, ok := res.Data.(*scene.Asset)
	if !ok {
		return es.fail(report, fmt.Errorf("%s: unexpected resource data %T", path, res.Data))
	}
	report.Mesh = asset.Mesh.Name()

	recorder := core.NewDiagnosticRecorder()
	diag := core.MultiDiagnostics(core.NewLogDiagnostics(report.Mesh), recorder)

	opts := asset.Options(es.options)
	if opts.Skin != nil {
		es.logger.Debug("skin", "mesh", report.Mesh, "max influences", asset.Skin.MaxInfluences())
	}
	record, result, err := exporter.ExportMesh(asset.Mesh, opts, diag)
	if err != nil {
		return es.fail(report, err)
	}

	report.Output = writers.OutputPath(es.outputDir, loaders.MeshName(path), es.writer)
	if err := es.writer.Write(record, report.Output); err != nil {
		return es.fail(report, err)
	}

	clock.Stop()
	report.Elapsed = clock.Elapsed()
	report.Vertices = len(result.Vertices)
	report.Indices = len(result.Indices)
	report.Warnings = recorder.Count(core.SeverityWarning)
	report.Errors = recorder.Count(core.SeverityError)
	positions := make([]math.Vec3, len(result.Vertices))
	for i, v := range result.Vertices {
		positions[i] = v.Position
	}
	report.Extents = math.GeometryExtents(positions)

	es.metrics.Update(report.Elapsed, report.Vertices, report.Indices, report.Warnings, report.Errors)
	es.logger.Info("exported", "mesh", report.Mesh, "output", report.Output, "vertices", report.Vertices, "elapsed", report.Elapsed)
	es.logger.Debug("bounds", "mesh", report.Mesh, "min", report.Extents.Min, "max", report.Extents.Max)
	return report, nil
}

func (es *ExportSystem) fail(report *ExportReport, err error) (*ExportReport, error) {
	report.Err = err
	es.metrics.Fail()
	return report, err
}

// Enqueue schedules the export of one document on the job system.
func (es *ExportSystem) Enqueue(path string) {
	es.inFlight.Add(1)
	es.jobs.Submit(metadata.JobTask{
		InputParams: path,
		OnStart: func(params interface{}) (interface{}, error) {
			return es.ExportFile(params.(string))
		},
		OnComplete: func(result interface{}) {
			es.record(result.(*ExportReport))
		},
		OnFailure: func(params interface{}, err error) {
			es.record(&ExportReport{Source: params.(string), Err: err})
		},
		OnCompletionCallback: func() {
			es.inFlight.Add(-1)
		},
	})
}

func (es *ExportSystem) record(report *ExportReport) {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	es.reports = append(es.reports, report)
	es.recent.Push(report)
}

// ExportAll exports every indexed mesh document, one job per mesh, and
// returns the reports once the batch is done.
func (es *ExportSystem) ExportAll() []*ExportReport {
	es.mutex.Lock()
	es.reports = nil
	es.mutex.Unlock()

	for _, asset := range es.assets.Assets(metadata.ResourceTypeMesh) {
		es.Enqueue(asset.Path)
	}
	es.jobs.Wait()

	return es.Reports()
}

// Reports returns the reports collected since the last ExportAll.
func (es *ExportSystem) Reports() []*ExportReport {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	out := make([]*ExportReport, len(es.reports))
	copy(out, es.reports)
	return out
}

// Recent returns the last reports recorded, oldest first. Unlike Reports it
// is not reset by ExportAll, so it covers the exports made while watching.
func (es *ExportSystem) Recent() []*ExportReport {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	return es.recent.Items()
}

// Pending returns how many enqueued exports have not finished yet.
func (es *ExportSystem) Pending() int {
	return int(es.inFlight.Load())
}

func (es *ExportSystem) Metrics() *core.ExportMetrics {
	return es.metrics
}
