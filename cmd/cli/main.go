package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"slices"
	"time"

	"github.com/limaJavier/lessonplanner/pkg/config"
	"github.com/limaJavier/lessonplanner/pkg/export"
	"github.com/limaJavier/lessonplanner/pkg/logger"
	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/schedule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	exitPartial      = 10
	exitVerification = 15
)

type output struct {
	schedule.Result
	WorkloadReport schedule.WorkloadReport `json:"workloadReport"`
	Seed           uint64                  `json:"seed"`
}

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to an input file holding both \"students\" and \"teachers\" arrays")
	studentsPathPtr := flag.String("students", "", "Path to a file holding an array of students; used along with -teachers instead of -file")
	teachersPathPtr := flag.String("teachers", "", "Path to a file holding an array of teachers; used along with -students instead of -file")
	configPathPtr := flag.String("config", defaultConfigPath(), "Path to a JSON configuration file overriding the environment; config.json next to the executable is the default")
	envPathPtr := flag.String("env", ".env", "Path to a .env file; ignored when it does not exist")
	iterationsPtr := flag.Int("iterations", 0, "Number of runs to optimize over; the configured value is used when 0")
	seedPtr := flag.Uint64("seed", 0, "Random seed; the configured value is used when 0 and the clock when both are 0")
	singlePtr := flag.Bool("single", false, "Generate a single week without optimization")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	csvDirPtr := flag.String("csv", "", "Directory where the sheets will be exported as CSV files")
	pdfPathPtr := flag.String("pdf", "", "Path to the PDF export of the sheets")
	metricsPathPtr := flag.String("metrics", "", "Path to a Prometheus textfile where run metrics will be written")
	flag.Parse()

	// Validate arguments
	if *filePathPtr == "" && (*studentsPathPtr == "" || *teachersPathPtr == "") {
		log.Fatal("an input file, or both a students file and a teachers file, must be specified")
	} else if *iterationsPtr < 0 {
		log.Fatalf("iterations must not be negative: %v", *iterationsPtr)
	}

	// Load configuration
	cfg, err := config.Load(*envPathPtr, *configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	params, err := cfg.Parameters()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer zapLogger.Sync()

	// Extract input
	input, err := readInput(*filePathPtr, *studentsPathPtr, *teachersPathPtr)
	if err != nil {
		log.Fatalf("cannot parse input: %v", err)
	}
	if err := model.ValidateDurations(input.Students, params.UnitMinutes); err != nil {
		log.Fatalf("input does not fit the grid: %v", err)
	}

	// Initialize engine
	seed := lo.CoalesceOrEmpty(*seedPtr, cfg.Optimizer.Seed, uint64(time.Now().UnixNano()))
	iterations := lo.CoalesceOrEmpty(*iterationsPtr, cfg.Optimizer.Iterations)
	optimizer, err := schedule.NewOptimizer(params, seed, zapLogger)
	if err != nil {
		log.Fatalf("cannot initialize optimizer: %v", err)
	}
	optimizer.SetParallel(cfg.Optimizer.Parallel)
	metrics := schedule.NewMetrics()
	optimizer.SetMetrics(metrics)

	// Build schedule
	var result schedule.Result
	if *singlePtr {
		result = optimizer.GenerateWeek(input.Students, input.Teachers)
	} else if result, err = optimizer.Optimize(input.Students, input.Teachers, iterations); err != nil {
		log.Fatalf("an error occurred during schedule construction: %v", err)
	}

	// Verify schedule correctness
	if err := schedule.Verify(result.Schedule, input.Teachers, params); err != nil {
		zapLogger.Error("schedule verification failed", zap.Error(err))
		zapLogger.Sync()
		os.Exit(exitVerification)
	}

	// Marshal output into json
	outputJson, err := json.MarshalIndent(output{
		Result:         result,
		WorkloadReport: schedule.NewWorkloadReport(result.TeacherWorkloads, input.Teachers),
		Seed:           seed,
	}, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if *outFilePathPtr == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(*outFilePathPtr, outputJson, 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	// Export sheets
	workbook := export.NewWorkbook(result, input.Students, input.Teachers, params)
	if *csvDirPtr != "" {
		files, err := export.NewCSVExporter().WriteDir(workbook, *csvDirPtr)
		if err != nil {
			log.Fatalf("an error occurred while exporting CSV: %v", err)
		}
		zapLogger.Info("csv exported", zap.Strings("files", files))
	}
	if *pdfPathPtr != "" {
		content, err := export.NewPDFExporter().Render(workbook)
		if err != nil {
			log.Fatalf("an error occurred while exporting PDF: %v", err)
		}
		if err := os.WriteFile(*pdfPathPtr, content, 0666); err != nil {
			log.Fatalf("an error occurred while writing the PDF file: %v", err)
		}
		zapLogger.Info("pdf exported", zap.String("file", *pdfPathPtr))
	}
	if *metricsPathPtr != "" {
		if err := prometheus.WriteToTextfile(*metricsPathPtr, metrics.Gatherer()); err != nil {
			log.Fatalf("an error occurred while writing metrics: %v", err)
		}
	}

	if len(result.FailedAssignments) > 0 {
		zapLogger.Warn("schedule is partial",
			zap.Int("failedAssignments", len(result.FailedAssignments)),
			zap.Int("failedStudents", len(result.FailedStudents)),
		)
		zapLogger.Sync()
		os.Exit(exitPartial)
	}
}

func readInput(filePath, studentsPath, teachersPath string) (model.Input, error) {
	if filePath != "" {
		return model.InputFromJson(filePath)
	}

	students, err := model.StudentsFromJson(studentsPath)
	if err != nil {
		return model.Input{}, err
	}
	teachers, err := model.TeachersFromJson(teachersPath)
	if err != nil {
		return model.Input{}, err
	}
	return model.Input{Students: students, Teachers: teachers}, nil
}

// defaultConfigPath returns config.json next to the executable, or an empty path when there is none
func defaultConfigPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execPath = path.Dir(execPath)

	files, err := os.ReadDir(execPath)
	if err != nil {
		return ""
	}
	fileNames := lo.Map(files, func(file os.DirEntry, _ int) string { return file.Name() })

	if !slices.Contains(fileNames, "config.json") {
		return ""
	}
	return execPath + "/config.json"
}
