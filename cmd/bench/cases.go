// README: Smoke cases for the planner API; includes HTTP, DB, Redis, and throughput checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// Filled in by earlier cases and read by later ones.
	token       string
	itineraryID string
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

var romeTrip = map[string]any{
	"destination": "Rome",
	"startDate":   "2024-06-01",
	"endDate":     "2024-06-03",
	"travelers":   2,
	"interests":   []string{"History", "Food"},
	"budget":      "Moderate",
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "DB reachable when PLANNER_STORE=postgres",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "Redis reachable when PLANNER_STORE=redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "Optionally apply migrations/*.sql",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				files, err := migrationFiles(r.cfg.MigrationDir)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, f := range files {
					sql, err := os.ReadFile(f)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					for _, s := range splitSQL(string(sql)) {
						if _, err := r.db.Exec(ctx, s); err != nil {
							return Result{Status: "FAIL", Note: fmt.Sprintf("%s: %v", filepath.Base(f), err)}
						}
					}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("%d files", len(files))}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "Tables declared in migrations/*.sql exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "SKIP", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationDir)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS"}
			},
		},

		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}, nil),
		httpCaseMethod("API: destination suggestions", http.MethodGet, base+"/api/destinations?q=ro", nil, []int{200}, []int{404}),

		{
			Name:  "Auth: login",
			Focus: "Demo account login returns a bearer token",
			Run: func(ctx context.Context, r *Runner) Result {
				var sess struct {
					Token string `json:"token"`
				}
				res, status := r.callJSON(ctx, http.MethodPost, base+"/api/auth/login", map[string]any{
					"email":    r.cfg.Email,
					"password": r.cfg.Password,
				}, &sess)
				if status != http.StatusOK || sess.Token == "" {
					res.Status = "FAIL"
					return res
				}
				r.token = sess.Token
				return res
			},
		},
		httpCase("Auth: login wrong password -> 401", base+"/api/auth/login", map[string]any{
			"email":    r.cfg.Email,
			"password": "definitely-wrong",
		}, []int{401}, nil),

		// Validation
		httpCase("Validate: valid request", base+"/api/itineraries/validate", romeTrip, []int{200}, []int{404}),
		{
			Name:  "Validate: end before start reports endDate",
			Focus: "Field errors returned as data",
			Run: func(ctx context.Context, r *Runner) Result {
				var out struct {
					Valid  bool              `json:"valid"`
					Errors map[string]string `json:"errors"`
				}
				res, status := r.callJSON(ctx, http.MethodPost, base+"/api/itineraries/validate", map[string]any{
					"destination": "Rome",
					"startDate":   "2024-06-03",
					"endDate":     "2024-06-01",
					"travelers":   1,
					"interests":   []string{"History"},
				}, &out)
				if status != http.StatusOK || out.Valid || out.Errors["endDate"] == "" {
					res.Status = "FAIL"
				}
				return res
			},
		},

		// Generation
		httpCase("Generate: no token -> 401", base+"/api/itineraries/generate", romeTrip, []int{401}, nil),
		{
			Name:  "Generate: invalid request -> 422",
			Focus: "Validation runs before generation",
			Run: func(ctx context.Context, r *Runner) Result {
				res, _ := r.callJSON(ctx, http.MethodPost, base+"/api/itineraries/generate", map[string]any{"destination": "Rome"}, nil)
				return expectStatus(res, http.StatusUnprocessableEntity)
			},
		},
		{
			Name:  "Generate: Rome 3 days",
			Focus: "Always resolves to a schema-valid itinerary",
			Run: func(ctx context.Context, r *Runner) Result {
				var it struct {
					ID             string `json:"id"`
					Source         string `json:"source"`
					FallbackReason string `json:"fallbackReason"`
					Days           []struct {
						Date       string            `json:"date"`
						Activities []json.RawMessage `json:"activities"`
					} `json:"days"`
				}
				res, status := r.callJSON(ctx, http.MethodPost, base+"/api/itineraries/generate", romeTrip, &it)
				if status != http.StatusCreated {
					res.Status = "FAIL"
					return res
				}
				if len(it.Days) != 3 || it.Days[0].Date != "2024-06-01" {
					return Result{Status: "FAIL", Latency: res.Latency, Note: fmt.Sprintf("days=%d", len(it.Days))}
				}
				r.itineraryID = it.ID
				note := "source=" + it.Source
				if it.FallbackReason != "" {
					note += " (" + it.FallbackReason + ")"
				}
				return Result{Status: "PASS", Latency: res.Latency, Note: note}
			},
		},

		// Saved itineraries
		{
			Name:  "Store: list contains generated",
			Focus: "Most recently saved first",
			Run: func(ctx context.Context, r *Runner) Result {
				var out struct {
					Itineraries []struct {
						ID string `json:"id"`
					} `json:"itineraries"`
				}
				res, status := r.callJSON(ctx, http.MethodGet, base+"/api/itineraries", nil, &out)
				if status != http.StatusOK {
					res.Status = "FAIL"
					return res
				}
				if r.itineraryID == "" {
					return Result{Status: "PENDING", Note: "no itinerary generated"}
				}
				if len(out.Itineraries) == 0 || out.Itineraries[0].ID != r.itineraryID {
					return Result{Status: "FAIL", Note: "generated itinerary not first"}
				}
				return res
			},
		},
		{
			Name:  "Store: get by id",
			Focus: "Round trip",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.itineraryID == "" {
					return Result{Status: "PENDING", Note: "no itinerary generated"}
				}
				res, _ := r.callJSON(ctx, http.MethodGet, base+"/api/itineraries/"+r.itineraryID, nil, nil)
				return expectStatus(res, http.StatusOK)
			},
		},
		{
			Name:  "Store: delete then delete again",
			Focus: "Second delete reports 404",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.itineraryID == "" {
					return Result{Status: "PENDING", Note: "no itinerary generated"}
				}
				url := base + "/api/itineraries/" + r.itineraryID
				if res, _ := r.callJSON(ctx, http.MethodDelete, url, nil, nil); res.Note != "status=204" {
					return Result{Status: "FAIL", Note: "first delete " + res.Note}
				}
				res, _ := r.callJSON(ctx, http.MethodDelete, url, nil, nil)
				return expectStatus(res, http.StatusNotFound)
			},
		},

		manualCase("Store: concurrent writers last-writer-wins", "Needs two API instances on the same medium"),
		manualCase("Error: store down -> empty list", "Stop Redis/Postgres and observe GET /api/itineraries"),

		// Rate limiting
		{
			Name:  "RateLimit: generate burst -> 429",
			Focus: "Per-caller limit on the generate endpoint",
			Run: func(ctx context.Context, r *Runner) Result {
				return burstGenerate(ctx, r, base+"/api/itineraries/generate")
			},
		},

		// Performance
		{
			Name:  "Perf: validate throughput",
			Focus: "Pure validation path under load",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/itineraries/validate", romeTrip)
			},
		},
	}
}

// callJSON sends body with the runner's token and decodes a 2xx response into out.
func (r *Runner) callJSON(ctx context.Context, method, url string, body, out any) (Result, int) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}, 0
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}, 0
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	latency := time.Since(start)

	if out != nil && resp.StatusCode/100 == 2 {
		if err := json.Unmarshal(raw, out); err != nil {
			return Result{Status: "FAIL", Latency: latency, Note: "decode: " + err.Error()}, resp.StatusCode
		}
	}
	return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}, resp.StatusCode
}

func expectStatus(res Result, want int) Result {
	if res.Status == "FAIL" {
		return res
	}
	if res.Note != fmt.Sprintf("status=%d", want) {
		res.Status = "FAIL"
	}
	return res
}

func httpCase(name, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses, pendingStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = strings.NewReader(string(b))
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			if contains(pendingStatuses, resp.StatusCode) {
				return Result{Status: "PENDING", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func manualCase(name, note string) TestCase {
	return TestCase{
		Name:  name,
		Focus: "Manual",
		Run: func(ctx context.Context, r *Runner) Result {
			return Result{Status: "SKIP", Note: note}
		},
	}
}

// burstGenerate fires concurrent generate calls and expects at least one 429.
func burstGenerate(ctx context.Context, r *Runner, url string) Result {
	if r.token == "" {
		return Result{Status: "PENDING", Note: "not logged in"}
	}
	b, _ := json.Marshal(romeTrip)
	wg := sync.WaitGroup{}
	created, limited := 0, 0
	mu := sync.Mutex{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+r.token)
			resp, err := r.httpc.Do(req)
			if err != nil {
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			mu.Lock()
			switch resp.StatusCode {
			case http.StatusCreated:
				created++
			case http.StatusTooManyRequests:
				limited++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	note := fmt.Sprintf("created=%d limited=%d", created, limited)
	if limited == 0 {
		return Result{Status: "FAIL", Note: note}
	}
	return Result{Status: "PASS", Note: note}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func extractTables(dir string) ([]string, error) {
	files, err := migrationFiles(dir)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	var tables []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		for _, m := range re.FindAllStringSubmatch(string(b), -1) {
			tables = append(tables, m[1])
		}
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
