package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Fields that differ between the two stacks by construction.
var defaultIgnored = []string{"_id", "__v", "createdAt", "updatedAt", "downloadCount", "storageKey", "publicId", "meta"}

type target struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Ignore  []string `json:"ignore"`
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Diff           string
	Err            error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func (c comparison) breaking() bool {
	return c.Target.Critical && (c.Err != nil || !c.StatusMatch || !c.BodyMatch)
}

func (c comparison) differs() bool {
	return c.Err != nil || !c.StatusMatch || !c.BodyMatch
}

type comparer struct {
	client     *http.Client
	goBase     string
	legacyBase string
	ignored    map[string]struct{}
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
		parallel    int
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.IntVar(&parallel, "parallel", 4, "Concurrent target comparisons")
	flag.Parse()

	file, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	cmp := newComparer(&http.Client{Timeout: timeout}, goBase, legacyBase, file.Ignore)
	results := cmp.run(context.Background(), file.Targets, parallel)
	printReport(os.Stdout, results)

	breaking, optional := 0, 0
	for _, res := range results {
		switch {
		case res.breaking():
			breaking++
		case res.differs():
			optional++
		}
	}
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func newComparer(client *http.Client, goBase, legacyBase string, extraIgnored []string) *comparer {
	ignored := make(map[string]struct{}, len(defaultIgnored)+len(extraIgnored))
	for _, field := range append(append([]string{}, defaultIgnored...), extraIgnored...) {
		ignored[field] = struct{}{}
	}
	return &comparer{
		client:     client,
		goBase:     strings.TrimRight(goBase, "/"),
		legacyBase: strings.TrimRight(legacyBase, "/"),
		ignored:    ignored,
	}
}

func loadTargets(path string) (*targetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return &file, nil
}

// run compares every target, keeping results in target order.
func (c *comparer) run(ctx context.Context, targets []target, parallel int) []comparison {
	if parallel <= 0 {
		parallel = 1
	}
	results := make([]comparison, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, tgt := range targets {
		i, tgt := i, tgt
		g.Go(func() error {
			results[i] = c.compare(ctx, tgt)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *comparer) compare(ctx context.Context, tgt target) comparison {
	comp := comparison{Target: tgt}

	goStatus, goBody, goDur, goErr := c.fetch(ctx, c.goBase, tgt.Path)
	legacyStatus, legacyBody, legacyDur, legacyErr := c.fetch(ctx, c.legacyBase, tgt.Path)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Err = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Err = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch, comp.Diff = c.bodiesEqual(goBody, legacyBody)
	return comp
}

func (c *comparer) fetch(ctx context.Context, base, path string) (int, []byte, time.Duration, error) {
	if c.client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

// bodiesEqual compares the Go envelope's data against the legacy payload.
// Legacy list endpoints wrap results under a named key, so a single-key
// legacy object is unwrapped as well.
func (c *comparer) bodiesEqual(goBody, legacyBody []byte) (bool, string) {
	if bytes.Equal(bytes.TrimSpace(goBody), bytes.TrimSpace(legacyBody)) {
		return true, ""
	}

	var goVal, legacyVal interface{}
	if err := json.Unmarshal(goBody, &goVal); err != nil {
		return false, "go body is not JSON"
	}
	if err := json.Unmarshal(legacyBody, &legacyVal); err != nil {
		return false, "legacy body is not JSON"
	}

	goVal = unwrapEnvelope(goVal)
	legacyVal = c.normalize(unwrapLegacy(legacyVal, goVal))
	goVal = c.normalize(goVal)
	if reflect.DeepEqual(goVal, legacyVal) {
		return true, ""
	}
	return false, firstDifference("$", goVal, legacyVal)
}

func unwrapEnvelope(v interface{}) interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	if data, ok := obj["data"]; ok {
		return data
	}
	return v
}

func unwrapLegacy(legacy, goVal interface{}) interface{} {
	if _, goIsList := goVal.([]interface{}); !goIsList {
		return legacy
	}
	obj, ok := legacy.(map[string]interface{})
	if !ok {
		return legacy
	}
	for _, v := range obj {
		if list, ok := v.([]interface{}); ok {
			return list
		}
	}
	return legacy
}

func (c *comparer) normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			if _, skip := c.ignored[k]; skip {
				continue
			}
			out[k] = c.normalize(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = c.normalize(child)
		}
		return out
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
	}
	return v
}

func firstDifference(path string, a, b interface{}) string {
	switch av := a.(type) {
	case map[string]interface{}:
		bv, ok := b.(map[string]interface{})
		if !ok {
			return fmt.Sprintf("%s: object vs %T", path, b)
		}
		keys := make([]string, 0, len(av)+len(bv))
		for k := range av {
			keys = append(keys, k)
		}
		for k := range bv {
			if _, seen := av[k]; !seen {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if diff := firstDifference(path+"."+k, av[k], bv[k]); diff != "" {
				return diff
			}
		}
		return ""
	case []interface{}:
		bv, ok := b.([]interface{})
		if !ok {
			return fmt.Sprintf("%s: array vs %T", path, b)
		}
		if len(av) != len(bv) {
			return fmt.Sprintf("%s: length %d vs %d", path, len(av), len(bv))
		}
		for i := range av {
			if diff := firstDifference(fmt.Sprintf("%s[%d]", path, i), av[i], bv[i]); diff != "" {
				return diff
			}
		}
		return ""
	}
	if !reflect.DeepEqual(a, b) {
		return fmt.Sprintf("%s: %v vs %v", path, a, b)
	}
	return ""
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if res.differs() {
			status = "DIFF"
		}
		name := res.Target.Name
		if name == "" {
			name = res.Target.Path
		}
		fmt.Fprintf(w, "[%s] %s (GET %s)\n", status, name, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Err)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		if res.Diff != "" {
			fmt.Fprintf(w, "  First difference: %s\n", res.Diff)
		}
	}
}
