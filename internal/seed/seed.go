// Package seed generates a coherent synthetic data directory plus matching
// model and scaler artifacts, so the service can run locally without real
// production exports.
package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	repository "github.com/okian/sensei/internal/adapters/repository"
	"github.com/okian/sensei/internal/domain/feature"
	"github.com/okian/sensei/pkg/logger"
)

// Config controls the synthetic snapshot.
type Config struct {
	// OutDir receives the data/ directory and the artifact files.
	OutDir string

	// Users is the number of generated users. They cycle through the four
	// behavioral archetypes; a handful stay inactive.
	Users int

	// Seed makes the output reproducible.
	Seed int64
}

// archetype shapes one behavioral cluster's raw activity.
type archetype struct {
	modules      [2]int     // min, max completed modules
	durationSecs [2]float64 // min, max per-module duration
	activeDays   [2]int     // min, max distinct days
	reviewChance float64    // probability a completed module is revisited
	examScore    [2]float64
	exams        [2]int
	submissions  [2]int
	submitRating [2]float64
}

// The four clusters the trained model distinguishes: fast, consistent,
// reflective, struggling.
var archetypes = []archetype{
	{[2]int{8, 15}, [2]float64{300, 900}, [2]int{4, 8}, 0.05, [2]float64{78, 92}, [2]int{1, 3}, [2]int{1, 3}, [2]float64{4.0, 5.0}},
	{[2]int{25, 45}, [2]float64{900, 2400}, [2]int{20, 40}, 0.20, [2]float64{80, 95}, [2]int{2, 5}, [2]int{2, 6}, [2]float64{4.0, 5.0}},
	{[2]int{20, 40}, [2]float64{3600, 10800}, [2]int{25, 45}, 0.60, [2]float64{70, 88}, [2]int{2, 4}, [2]int{2, 5}, [2]float64{3.5, 4.8}},
	{[2]int{10, 25}, [2]float64{1800, 7200}, [2]int{8, 20}, 0.70, [2]float64{40, 62}, [2]int{3, 6}, [2]int{5, 12}, [2]float64{2.0, 3.5}},
}

const inactiveEvery = 10 // every n-th user has no completed work

var firstNames = []string{"Ada", "Linus", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia"}
var lastNames = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Perlman", "Kay"}

// Write generates the snapshot under cfg.OutDir: a data/ directory with the
// six raw tables and model.json + scaler.json derived from the generated
// activity itself, so the artifacts always agree with the data.
func Write(ctx context.Context, cfg Config) error {
	if cfg.Users <= 0 {
		return fmt.Errorf("users must be positive, got %d", cfg.Users)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	dataDir := filepath.Join(cfg.OutDir, "data")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tables := generate(rng, cfg.Users)
	if err := writeTables(dataDir, tables); err != nil {
		return err
	}
	if err := writeArtifacts(ctx, cfg.OutDir, tables); err != nil {
		return err
	}

	logger.Get().Info(ctx, "synthetic snapshot written",
		logger.String("dir", cfg.OutDir),
		logger.Int("users", len(tables.Users)),
		logger.Int("trackingRows", len(tables.ModuleTracking)),
	)
	return nil
}

func generate(rng *rand.Rand, users int) repository.Tables {
	var t repository.Tables

	for i, c := range feature.Categories {
		// Three tutorials per category, ids grouped by hundreds.
		for j := 0; j < 3; j++ {
			t.TutorialTypes = append(t.TutorialTypes, repository.TutorialType{
				ID:   int64(100*(i+1) + j),
				Type: c,
			})
		}
	}

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	regID := int64(1000)

	for u := 1; u <= users; u++ {
		id := int64(u)
		t.Users = append(t.Users, repository.User{
			ID:   id,
			Name: firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
		})
		if u%inactiveEvery == 0 {
			// Opened a module once but never finished anything.
			opened := base.Add(time.Duration(rng.Intn(720)) * time.Hour)
			t.ModuleTracking = append(t.ModuleTracking, repository.ModuleTracking{
				DeveloperID: id,
				TutorialID:  t.TutorialTypes[rng.Intn(len(t.TutorialTypes))].ID,
				FirstOpened: &opened,
			})
			continue
		}

		a := archetypes[u%len(archetypes)]
		modules := between(rng, a.modules)
		days := between(rng, a.activeDays)
		if days > modules {
			days = modules
		}

		for m := 0; m < modules; m++ {
			day := m % days
			opened := base.AddDate(0, 0, day).Add(time.Duration(rng.Intn(8)) * time.Hour)
			dur := a.durationSecs[0] + rng.Float64()*(a.durationSecs[1]-a.durationSecs[0])
			completed := opened.Add(time.Duration(dur) * time.Second)
			row := repository.ModuleTracking{
				DeveloperID: id,
				TutorialID:  t.TutorialTypes[rng.Intn(len(t.TutorialTypes))].ID,
				FirstOpened: &opened,
				Completed:   &completed,
			}
			if rng.Float64() < a.reviewChance {
				viewed := completed.AddDate(0, 0, 1+rng.Intn(7))
				row.LastViewed = &viewed
			}
			t.ModuleTracking = append(t.ModuleTracking, row)
		}

		for e := 0; e < between(rng, a.exams); e++ {
			regID++
			score := a.examScore[0] + rng.Float64()*(a.examScore[1]-a.examScore[0])
			t.ExamRegistrations = append(t.ExamRegistrations, repository.ExamRegistration{ID: regID, ExamineeID: id})
			t.ExamResults = append(t.ExamResults, repository.ExamResult{
				RegistrationID: regID,
				Score:          score,
				Passed:         score >= 70,
			})
		}

		for s := 0; s < between(rng, a.submissions); s++ {
			rating := a.submitRating[0] + rng.Float64()*(a.submitRating[1]-a.submitRating[0])
			t.Submissions = append(t.Submissions, repository.Submission{SubmitterID: id, Rating: &rating})
		}
	}

	return t
}

func between(rng *rand.Rand, bounds [2]int) int {
	return bounds[0] + rng.Intn(bounds[1]-bounds[0]+1)
}

func writeTables(dir string, t repository.Tables) error {
	if err := writeCSV(dir, repository.UsersFile, []string{"id", "name"}, len(t.Users), func(i int) []string {
		return []string{strconv.FormatInt(t.Users[i].ID, 10), t.Users[i].Name}
	}); err != nil {
		return err
	}

	trackingCols := []string{"developer_id", "tutorial_id", "first_opened_at", "completed_at", "last_viewed"}
	if err := writeCSV(dir, repository.ModuleTrackingFile, trackingCols, len(t.ModuleTracking), func(i int) []string {
		r := t.ModuleTracking[i]
		return []string{
			strconv.FormatInt(r.DeveloperID, 10),
			strconv.FormatInt(r.TutorialID, 10),
			formatTime(r.FirstOpened),
			formatTime(r.Completed),
			formatTime(r.LastViewed),
		}
	}); err != nil {
		return err
	}

	if err := writeCSV(dir, repository.TutorialTypesFile, []string{"id", "type"}, len(t.TutorialTypes), func(i int) []string {
		return []string{strconv.FormatInt(t.TutorialTypes[i].ID, 10), t.TutorialTypes[i].Type}
	}); err != nil {
		return err
	}

	if err := writeCSV(dir, repository.ExamRegistrationsFile, []string{"id", "examinee_id"}, len(t.ExamRegistrations), func(i int) []string {
		r := t.ExamRegistrations[i]
		return []string{strconv.FormatInt(r.ID, 10), strconv.FormatInt(r.ExamineeID, 10)}
	}); err != nil {
		return err
	}

	if err := writeCSV(dir, repository.ExamResultsFile, []string{"exam_registration_id", "score", "is_passed"}, len(t.ExamResults), func(i int) []string {
		r := t.ExamResults[i]
		return []string{
			strconv.FormatInt(r.RegistrationID, 10),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			strconv.FormatBool(r.Passed),
		}
	}); err != nil {
		return err
	}

	return writeCSV(dir, repository.SubmissionsFile, []string{"submitter_id", "rating"}, len(t.Submissions), func(i int) []string {
		r := t.Submissions[i]
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', 2, 64)
		}
		return []string{strconv.FormatInt(r.SubmitterID, 10), rating}
	})
}

func writeCSV(dir, name string, header []string, rows int, row func(int) []string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("write %s row %d: %w", name, i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", name, err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// writeArtifacts derives centroids from the generated activity itself: each
// archetype's mean aggregated feature vector, scaled, becomes a centroid,
// and the scaler holds the overall mean and stddev per feature. The
// artifacts can therefore never disagree with the data they ship with.
func writeArtifacts(ctx context.Context, outDir string, tables repository.Tables) error {
	schema := feature.DefaultSchema()
	store := repository.NewMemStore(ctx, tables)
	agg := feature.NewAggregator(feature.WithSchema(schema))

	sums := make([][]float64, len(archetypes))
	counts := make([]int, len(archetypes))
	for i := range sums {
		sums[i] = make([]float64, len(schema))
	}
	var all [][]float64

	for _, u := range tables.Users {
		vec := agg.Aggregate(ctx, u.ID, store)
		if vec.Get(feature.FieldModulesCompleted) == 0 {
			continue
		}
		values := vec.Values()
		k := int(u.ID) % len(archetypes)
		for j, v := range values {
			sums[k][j] += v
		}
		counts[k]++
		all = append(all, values)
	}

	if len(all) == 0 {
		return fmt.Errorf("no active users generated, cannot derive centroids")
	}
	center, scale := meanStddev(all, len(schema))

	// Centroids live in scaled space, the same space the pipeline measures
	// distances in.
	centroids := make([][]float64, 0, len(archetypes))
	for i, sum := range sums {
		if counts[i] == 0 {
			continue
		}
		c := make([]float64, len(schema))
		for j := range sum {
			c[j] = (sum[j]/float64(counts[i]) - center[j]) / scale[j]
		}
		centroids = append(centroids, c)
	}

	if err := writeJSONFile(filepath.Join(outDir, "model.json"), map[string]any{
		"feature_names": []string(schema),
		"centroids":     centroids,
	}); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(outDir, "scaler.json"), map[string]any{
		"center": center,
		"scale":  scale,
	})
}

func meanStddev(rows [][]float64, width int) (center, scale []float64) {
	center = make([]float64, width)
	scale = make([]float64, width)
	n := float64(len(rows))
	for _, r := range rows {
		for j, v := range r {
			center[j] += v
		}
	}
	for j := range center {
		center[j] /= n
	}
	for _, r := range rows {
		for j, v := range r {
			d := v - center[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return center, scale
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
