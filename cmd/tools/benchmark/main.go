package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/soltixdb/varindex/internal/models"
)

// BenchmarkConfig holds benchmark configuration
type BenchmarkConfig struct {
	BaseURL     string
	Points      int // observations per lightcurve
	BatchSize   int // lightcurves per request, 1 = single endpoint
	Workers     int
	Duration    time.Duration
	VariableFrc float64 // fraction of synthetic stars with a sinusoidal signal
	APIKey      string
	HTTPClient  *http.Client
}

// Metrics holds benchmark metrics
type Metrics struct {
	Latencies  []float64
	Errors     int64
	Success    int64 // lightcurves, not requests
	FirstError string
	mu         sync.Mutex
}

// Result represents benchmark results
type Result struct {
	SuccessOps int64
	ErrorOps   int64
	Duration   time.Duration
	Throughput float64 // lightcurves/sec
	AvgLatency float64 // ms
	MinLatency float64 // ms
	MaxLatency float64 // ms
	P50Latency float64 // ms
	P95Latency float64 // ms
	P99Latency float64 // ms
	ErrorMsg   string
}

func main() {
	config := BenchmarkConfig{}
	flag.StringVar(&config.BaseURL, "url", "http://127.0.0.1:5580", "Base URL of the indexer API")
	flag.IntVar(&config.Points, "points", 500, "Observations per lightcurve")
	flag.IntVar(&config.BatchSize, "batch-size", 1, "Lightcurves per request")
	flag.IntVar(&config.Workers, "workers", 8, "Number of concurrent workers")
	flag.DurationVar(&config.Duration, "duration", 30*time.Second, "Benchmark duration")
	flag.Float64Var(&config.VariableFrc, "variable-fraction", 0.1, "Fraction of variable stars")
	flag.StringVar(&config.APIKey, "api-key", "", "API key for authentication")
	flag.Parse()

	config.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	fmt.Printf("=== varindex Benchmark Tool ===\n")
	fmt.Printf("  URL: %s\n", config.BaseURL)
	fmt.Printf("  Points per lightcurve: %d\n", config.Points)
	fmt.Printf("  Batch Size: %d\n", config.BatchSize)
	fmt.Printf("  Workers: %d\n", config.Workers)
	fmt.Printf("  Duration: %s\n\n", config.Duration)

	metrics := runBenchmark(config)
	result := calculateResult(metrics, config.Duration)

	fmt.Printf("\n=== Benchmark Results ===\n\n")
	displayResult(os.Stdout, result)
}

func runBenchmark(config BenchmarkConfig) *Metrics {
	metrics := &Metrics{Latencies: make([]float64, 0, 10000)}

	var wg sync.WaitGroup
	stopCh := make(chan struct{})
	startTime := time.Now()

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go worker(i, config, metrics, stopCh, &wg)
	}
	go progressReporter(metrics, config.Duration, startTime)

	time.Sleep(config.Duration)
	close(stopCh)
	wg.Wait()

	return metrics
}

func worker(id int, config BenchmarkConfig, metrics *Metrics, stopCh chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	rng := rand.New(rand.NewSource(int64(id) + time.Now().UnixNano()))
	counter := 0

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		curves := make([]models.LightCurveRequest, config.BatchSize)
		for i := range curves {
			curves[i] = syntheticLightCurve(rng, fmt.Sprintf("bench-%02d-%08d", id, counter), config)
			counter++
		}

		var url string
		var payload interface{}
		if config.BatchSize > 1 {
			url = config.BaseURL + "/v1/indices/batch"
			payload = models.BatchRequest{LightCurves: curves}
		} else {
			url = config.BaseURL + "/v1/indices"
			payload = curves[0]
		}

		start := time.Now()
		err := makeRequest(config, url, payload)
		latency := time.Since(start).Seconds() * 1000

		metrics.mu.Lock()
		metrics.Latencies = append(metrics.Latencies, latency)
		if err != nil && metrics.FirstError == "" {
			metrics.FirstError = err.Error()
		}
		metrics.mu.Unlock()

		if err != nil {
			atomic.AddInt64(&metrics.Errors, 1)
		} else {
			atomic.AddInt64(&metrics.Success, int64(config.BatchSize))
		}
	}
}

// syntheticLightCurve draws a seasonal cadence with Gaussian noise, and a
// sinusoid for a fraction of the stars
func syntheticLightCurve(rng *rand.Rand, name string, config BenchmarkConfig) models.LightCurveRequest {
	lc := models.LightCurveRequest{
		Name: name,
		JD:   make([]float64, config.Points),
		Mag:  make([]float64, config.Points),
		Err:  make([]float64, config.Points),
	}

	base := 12 + 4*rng.Float64()
	sigma := 0.01 + 0.02*rng.Float64()
	amplitude, period := 0.0, 1.0
	if rng.Float64() < config.VariableFrc {
		amplitude = 0.05 + 0.5*rng.Float64()
		period = 0.3 + 20*rng.Float64()
	}

	jd := 2459000.0
	for i := 0; i < config.Points; i++ {
		jd += 0.02 + 0.5*rng.Float64()
		if i > 0 && i%100 == 0 {
			jd += 200 // next season
		}
		lc.JD[i] = jd
		lc.Mag[i] = base + amplitude*math.Sin(2*math.Pi*jd/period) + sigma*rng.NormFloat64()
		lc.Err[i] = sigma
	}
	return lc
}

func progressReporter(metrics *Metrics, duration time.Duration, startTime time.Time) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		elapsed := time.Since(startTime)
		if elapsed >= duration {
			return
		}

		done := atomic.LoadInt64(&metrics.Success)
		errs := atomic.LoadInt64(&metrics.Errors)
		fmt.Printf("[%s remaining] Lightcurves: %d (%.0f/s, %d errors)\n",
			(duration - elapsed).Round(time.Second), done, float64(done)/elapsed.Seconds(), errs)
	}
}

func makeRequest(config BenchmarkConfig, url string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if config.APIKey != "" {
		req.Header.Set("X-API-Key", config.APIKey)
	}

	resp, err := config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	// Read and discard body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

func calculateResult(m *Metrics, duration time.Duration) Result {
	result := Result{
		SuccessOps: m.Success,
		ErrorOps:   m.Errors,
		Duration:   duration,
		Throughput: float64(m.Success) / duration.Seconds(),
		ErrorMsg:   m.FirstError,
	}
	if len(m.Latencies) == 0 {
		return result
	}

	data := stats.Float64Data(m.Latencies)
	result.MinLatency, _ = data.Min()
	result.MaxLatency, _ = data.Max()
	result.AvgLatency, _ = data.Mean()
	result.P50Latency, _ = data.Percentile(50)
	result.P95Latency, _ = data.Percentile(95)
	result.P99Latency, _ = data.Percentile(99)
	return result
}

func displayResult(w io.Writer, r Result) {
	_, _ = fmt.Fprintf(w, "Requests failed:  %d\n", r.ErrorOps)
	_, _ = fmt.Fprintf(w, "Lightcurves:      %d\n", r.SuccessOps)
	_, _ = fmt.Fprintf(w, "Duration:         %s\n", r.Duration)
	_, _ = fmt.Fprintf(w, "Throughput:       %.2f lightcurves/sec\n", r.Throughput)
	if r.ErrorOps > 0 && r.ErrorMsg != "" {
		_, _ = fmt.Fprintf(w, "First Error:      %s\n", r.ErrorMsg)
	}
	_, _ = fmt.Fprintf(w, "\nRequest latency (ms):\n")
	_, _ = fmt.Fprintf(w, "  Min:  %.2f\n", r.MinLatency)
	_, _ = fmt.Fprintf(w, "  Avg:  %.2f\n", r.AvgLatency)
	_, _ = fmt.Fprintf(w, "  P50:  %.2f\n", r.P50Latency)
	_, _ = fmt.Fprintf(w, "  P95:  %.2f\n", r.P95Latency)
	_, _ = fmt.Fprintf(w, "  P99:  %.2f\n", r.P99Latency)
	_, _ = fmt.Fprintf(w, "  Max:  %.2f\n", r.MaxLatency)
}
