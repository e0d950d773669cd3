package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/limaJavier/lessonplanner/pkg/model"
	"github.com/limaJavier/lessonplanner/pkg/schedule"
	"github.com/samber/lo"
)

const resultsFile = "benchmark_results.csv"

var (
	durations    = []int{30, 60, 90, 120, 180, 240, 300}
	dailyClasses = []int{1, 1, 1, 2} // Two classes a day are the exception
	genders      = []string{"female", "male"}
)

type Population struct {
	Name     string
	Students int
	Teachers int
}

type BenchmarkResult struct {
	Population Population
	Iterations int
	Parallel   bool
	Duration   int64 // Milliseconds
	Spread     int
	Expected   float64
	Assigned   int
	Failures   int
}

func main() {
	seedPtr := flag.Uint64("seed", 1, "Seed for both the generated populations and the optimizer")
	flag.Parse()

	populations := getPopulations()
	iterationCounts := getIterationCounts()
	results := make([]BenchmarkResult, 0, len(populations)*len(iterationCounts)*2)

	for _, population := range populations {
		students, teachers := generatePopulation(population, *seedPtr)
		for _, iterations := range iterationCounts {
			for _, parallel := range []bool{false, true} {
				fmt.Printf("Benchmarking population \"%v\" with %v iterations (parallel: %v)\n", population.Name, iterations, parallel)
				results = append(results, measure(population, students, teachers, iterations, parallel, *seedPtr))
			}
		}
	}

	if err := toCsv(results, resultsFile); err != nil {
		log.Fatalf("cannot write results: %v", err)
	}
}

func getPopulations() []Population {
	return []Population{
		{Name: "small", Students: 10, Teachers: 3},
		{Name: "medium", Students: 40, Teachers: 8},
		{Name: "large", Students: 120, Teachers: 20},
		{Name: "understaffed", Students: 60, Teachers: 4},
	}
}

func getIterationCounts() []int {
	return []int{1, 10, 50}
}

func generatePopulation(population Population, seed uint64) ([]model.Student, []model.Teacher) {
	rng := rand.New(rand.NewPCG(seed, uint64(population.Students*1000+population.Teachers)))

	students := lo.Times(population.Students, func(i int) model.Student {
		return model.Student{
			Id:            fmt.Sprintf("s%d", i),
			Name:          fmt.Sprintf("Student %d", i),
			Gender:        genders[rng.IntN(len(genders))],
			DailyClasses:  dailyClasses[rng.IntN(len(dailyClasses))],
			ClassDuration: durations[rng.IntN(len(durations))],
		}
	})
	teachers := lo.Times(population.Teachers, func(i int) model.Teacher {
		return model.Teacher{
			Id:     fmt.Sprintf("t%d", i),
			Name:   fmt.Sprintf("Teacher %d", i),
			Gender: genders[rng.IntN(len(genders))],
		}
	})
	return students, teachers
}

func measure(population Population, students []model.Student, teachers []model.Teacher, iterations int, parallel bool, seed uint64) BenchmarkResult {
	optimizer, err := schedule.NewOptimizer(schedule.DefaultParameters(), seed, nil)
	if err != nil {
		log.Fatalf("cannot initialize optimizer: %v", err)
	}
	optimizer.SetParallel(parallel)

	start := time.Now()
	result, err := optimizer.Optimize(students, teachers, iterations)
	if err != nil {
		log.Fatalf("an error occurred during the optimization of population \"%v\": %v", population.Name, err)
	}
	duration := time.Since(start).Milliseconds()

	return BenchmarkResult{
		Population: population,
		Iterations: iterations,
		Parallel:   parallel,
		Duration:   duration,
		Spread:     result.OptimizationInfo.BestSpread,
		Expected:   result.AssignmentStats.ExpectedTotal,
		Assigned:   result.AssignmentStats.AssignedTotal,
		Failures:   len(result.FailedAssignments),
	}
}

func toCsv(results []BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Population", "Students", "Teachers", "Iterations", "Parallel", "Duration(ms)", "Spread", "Expected", "Assigned", "Coverage(%)", "Failures"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Population.Name,
			fmt.Sprintf("%d", result.Population.Students),
			fmt.Sprintf("%d", result.Population.Teachers),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%v", result.Parallel),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%d", result.Spread),
			fmt.Sprintf("%.1f", result.Expected),
			fmt.Sprintf("%d", result.Assigned),
			fmt.Sprintf("%.1f", coverage(result)),
			fmt.Sprintf("%d", result.Failures),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// coverage is the share of the demanded lesson-units that got assigned
func coverage(result BenchmarkResult) float64 {
	if result.Expected == 0 {
		return 100
	}
	return float64(result.Assigned) / result.Expected * 100
}
