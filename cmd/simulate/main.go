package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-kiosk/internal/api"
	"github.com/hackgods/hospital-kiosk/internal/kiosk"
	"github.com/hackgods/hospital-kiosk/internal/logging"
	"github.com/hackgods/hospital-kiosk/internal/registry"
)

type SimConfig struct {
	APIBaseURL     string
	Journeys       int
	Pause          time.Duration
	ExistingRatio  float64
	AbandonRatio   float64
	RegistryRatio  float64
	Seed           int64
	RequestTimeout time.Duration
}

// DataPool remembers patients registered during the run so later journeys
// can find them again.
type DataPool struct {
	mu     sync.RWMutex
	phones []string
}

func (dp *DataPool) AddPhone(phone string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.phones = append(dp.phones, phone)
}

func (dp *DataPool) RandomPhone(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.phones) == 0 {
		return "", false
	}
	return dp.phones[rng.Intn(len(dp.phones))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Metrics holds one OperationMetrics per API operation, in first-use order.
type Metrics struct {
	mu    sync.Mutex
	order []string
	ops   map[string]*OperationMetrics
}

func (m *Metrics) op(name string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ops == nil {
		m.ops = map[string]*OperationMetrics{}
	}
	om, ok := m.ops[name]
	if !ok {
		om = &OperationMetrics{}
		m.ops[name] = om
		m.order = append(m.order, name)
	}
	return om
}

type JourneyResult struct {
	Completed int64
	Abandoned int64
	Failed    int64
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *kioskClient
	ids     []registry.Identity
	faker   *gofakeit.Faker
	rng     *rand.Rand
	logger  zerolog.Logger
	metrics *Metrics
	result  JourneyResult
}

func NewSimulator(cfg SimConfig, httpClient *http.Client, logger zerolog.Logger) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := &Metrics{}
	return &Simulator{
		config:  cfg,
		pool:    &DataPool{},
		client:  &kioskClient{baseURL: strings.TrimRight(cfg.APIBaseURL, "/"), http: httpClient, metrics: m},
		ids:     registry.MustDefault().All(),
		faker:   gofakeit.New(uint64(seed)),
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
		metrics: m,
	}
}

func main() {
	logger := logging.Init("simulate", getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger.Info().
		Str("api", cfg.APIBaseURL).
		Int("journeys", cfg.Journeys).
		Float64("existing", cfg.ExistingRatio).
		Float64("abandon", cfg.AbandonRatio).
		Msg("simulator starting")

	sim := NewSimulator(cfg, &http.Client{Timeout: cfg.RequestTimeout}, logger)

	// Run simulation
	sim.Run(context.Background())

	// Print report
	sim.PrintReport()
}

func loadConfig() SimConfig {
	return SimConfig{
		APIBaseURL:     getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Journeys:       getInt("SIM_JOURNEYS", 20),
		Pause:          getDuration("SIM_PAUSE", 200*time.Millisecond),
		ExistingRatio:  getFloat("SIM_EXISTING_RATIO", 0.3),
		AbandonRatio:   getFloat("SIM_ABANDON_RATIO", 0.1),
		RegistryRatio:  getFloat("SIM_REGISTRY_RATIO", 0.5),
		Seed:           int64(getInt("SIM_SEED", 0)),
		RequestTimeout: getDuration("SIM_REQUEST_TIMEOUT", 10*time.Second),
	}
}

func validateConfig(cfg SimConfig) error {
	if cfg.Journeys <= 0 {
		return errors.New("SIM_JOURNEYS must be positive")
	}
	for name, v := range map[string]float64{
		"SIM_EXISTING_RATIO": cfg.ExistingRatio,
		"SIM_ABANDON_RATIO":  cfg.AbandonRatio,
		"SIM_REGISTRY_RATIO": cfg.RegistryRatio,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if cfg.ExistingRatio+cfg.AbandonRatio > 1 {
		return errors.New("SIM_EXISTING_RATIO + SIM_ABANDON_RATIO must not exceed 1")
	}
	return nil
}

// Run walks the journeys one after another. A kiosk serves one person at a
// time, so there is no concurrency here.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info().Int("journeys", s.config.Journeys).Msg("starting simulation")

	for i := 0; i < s.config.Journeys; i++ {
		if ctx.Err() != nil {
			break
		}

		var err error
		r := s.rng.Float64()
		switch {
		case r < s.config.AbandonRatio:
			err = s.abandonedJourney(ctx)
			if err == nil {
				atomic.AddInt64(&s.result.Abandoned, 1)
			}
		case r < s.config.AbandonRatio+s.config.ExistingRatio:
			err = s.existingPatientJourney(ctx)
		default:
			err = s.newPatientJourney(ctx)
		}

		if err != nil {
			atomic.AddInt64(&s.result.Failed, 1)
			s.logger.Warn().Err(err).Int("journey", i).Msg("journey failed")
			// Leave the kiosk on welcome for the next journey.
			_ = s.client.call(ctx, "home", http.MethodPost, "/kiosk/home", nil, nil)
		}

		if s.config.Pause > 0 {
			time.Sleep(s.config.Pause)
		}
	}

	s.logger.Info().Msg("simulation complete")
}

func (s *Simulator) newPatientJourney(ctx context.Context) error {
	if err := s.wakeAndStart(ctx, "new"); err != nil {
		return err
	}

	number := s.faker.Numerify("############")
	if s.rng.Float64() < s.config.RegistryRatio && len(s.ids) > 0 {
		number = s.ids[s.rng.Intn(len(s.ids))].Aadhaar
	}

	var res struct {
		Result kiosk.IdentityResolution `json:"result"`
	}
	if err := s.client.call(ctx, "identity", http.MethodPost, "/kiosk/identity", api.IdentityRequest{Number: number}, &res); err != nil {
		return fmt.Errorf("submit identity: %w", err)
	}

	switch res.Result.Outcome {
	case kiosk.IdentityKnown:
		if err := s.client.call(ctx, "history", http.MethodGet, "/kiosk/history", nil, nil); err != nil {
			return fmt.Errorf("history: %w", err)
		}
		if err := s.client.call(ctx, "book-new", http.MethodPost, "/kiosk/book-new", nil, nil); err != nil {
			return fmt.Errorf("book new: %w", err)
		}
	default:
		form := api.RegisterRequest{
			Name:   s.faker.FirstName() + " " + s.faker.LastName(),
			Age:    strconv.Itoa(s.faker.Number(1, 90)),
			Gender: s.gender(),
			Phone:  s.faker.Numerify("9#########"),
		}
		if d := res.Result.Draft; d != nil && d.Name != "" {
			form = api.RegisterRequest{Name: d.Name, Age: d.Age, Gender: d.Gender, Phone: d.Phone}
		}
		if err := s.client.call(ctx, "register", http.MethodPost, "/kiosk/register", form, nil); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		s.pool.AddPhone(form.Phone)
	}

	return s.book(ctx)
}

func (s *Simulator) gender() string {
	if s.rng.Intn(2) == 0 {
		return "Male"
	}
	return "Female"
}

func (s *Simulator) existingPatientJourney(ctx context.Context) error {
	phone, ok := s.pool.RandomPhone(s.rng)
	if !ok {
		return s.newPatientJourney(ctx)
	}
	if err := s.wakeAndStart(ctx, "existing"); err != nil {
		return err
	}
	if err := s.client.call(ctx, "search", http.MethodPost, "/kiosk/search", api.SearchRequest{Mode: "phone", Query: phone}, nil); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := s.client.call(ctx, "history", http.MethodGet, "/kiosk/history", nil, nil); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := s.client.call(ctx, "book-new", http.MethodPost, "/kiosk/book-new", nil, nil); err != nil {
		return fmt.Errorf("book new: %w", err)
	}
	return s.book(ctx)
}

func (s *Simulator) abandonedJourney(ctx context.Context) error {
	if err := s.wakeAndStart(ctx, "new"); err != nil {
		return err
	}
	return s.client.call(ctx, "home", http.MethodPost, "/kiosk/home", nil, nil)
}

// wakeAndStart brings the kiosk to the first screen of a journey from
// whatever screen it was left on.
func (s *Simulator) wakeAndStart(ctx context.Context, mode string) error {
	var st struct {
		Step kiosk.Step `json:"step"`
	}
	if err := s.client.call(ctx, "state", http.MethodGet, "/kiosk/state", nil, &st); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	switch st.Step {
	case kiosk.StepAttract:
		if err := s.client.call(ctx, "wake", http.MethodPost, "/kiosk/wake", nil, nil); err != nil {
			return fmt.Errorf("wake: %w", err)
		}
	case kiosk.StepWelcome:
	default:
		if err := s.client.call(ctx, "home", http.MethodPost, "/kiosk/home", nil, nil); err != nil {
			return fmt.Errorf("home: %w", err)
		}
	}
	if err := s.client.call(ctx, "start", http.MethodPost, "/kiosk/start", api.StartRequest{Mode: mode}, nil); err != nil {
		return fmt.Errorf("start %s: %w", mode, err)
	}
	return nil
}

// book runs department, doctor, payment and slip, then returns home.
func (s *Simulator) book(ctx context.Context) error {
	depts := kiosk.Departments
	dept := depts[s.rng.Intn(len(depts))]
	if err := s.client.call(ctx, "department", http.MethodPost, "/kiosk/department", api.DepartmentRequest{ID: dept.ID}, nil); err != nil {
		return fmt.Errorf("department: %w", err)
	}

	var docs struct {
		Result []kiosk.Doctor `json:"result"`
	}
	if err := s.client.call(ctx, "doctors", http.MethodGet, "/kiosk/doctors", nil, &docs); err != nil {
		return fmt.Errorf("doctors: %w", err)
	}
	if len(docs.Result) == 0 {
		return fmt.Errorf("no doctors for %s", dept.ID)
	}
	doc := docs.Result[s.rng.Intn(len(docs.Result))]
	if len(doc.AvailableSlots) == 0 {
		return fmt.Errorf("doctor %s has no slots", doc.ID)
	}
	slot := doc.AvailableSlots[s.rng.Intn(len(doc.AvailableSlots))]
	if err := s.client.call(ctx, "doctor", http.MethodPost, "/kiosk/doctor", api.DoctorRequest{DoctorID: doc.ID, Slot: slot}, nil); err != nil {
		return fmt.Errorf("doctor: %w", err)
	}

	if err := s.client.call(ctx, "payment", http.MethodGet, "/kiosk/payment", nil, nil); err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	var appt struct {
		Result kiosk.Appointment `json:"result"`
	}
	if err := s.client.call(ctx, "confirm", http.MethodPost, "/kiosk/payment/confirm", nil, &appt); err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if err := s.client.call(ctx, "slip", http.MethodGet, "/kiosk/slip", nil, nil); err != nil {
		return fmt.Errorf("slip: %w", err)
	}

	s.logger.Info().
		Str("appointment_id", appt.Result.AppointmentID).
		Int("token", appt.Result.TokenNumber).
		Str("doctor", appt.Result.DoctorName).
		Msg("booked")
	atomic.AddInt64(&s.result.Completed, 1)

	return s.client.call(ctx, "home", http.MethodPost, "/kiosk/home", nil, nil)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(repeat("=", 80))
	fmt.Printf("Journeys: %d\n", s.config.Journeys)
	fmt.Printf("  Booked: %d\n", atomic.LoadInt64(&s.result.Completed))
	fmt.Printf("  Abandoned: %d\n", atomic.LoadInt64(&s.result.Abandoned))
	fmt.Printf("  Failed: %d\n", atomic.LoadInt64(&s.result.Failed))
	fmt.Println()

	s.metrics.mu.Lock()
	order := append([]string(nil), s.metrics.order...)
	s.metrics.mu.Unlock()
	for _, name := range order {
		printOperationReport(name, s.metrics.op(name))
	}
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
