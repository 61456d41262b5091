package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Raw-table file names inside the data directory.
const (
	UsersFile             = "users.csv"
	ModuleTrackingFile    = "module_tracking.csv"
	TutorialTypesFile     = "tutorial_types.csv"
	ExamRegistrationsFile = "exam_registrations.csv"
	ExamResultsFile       = "exam_results.csv"
	SubmissionsFile       = "submissions.csv"
)

// LoadTables reads all raw tables from dir. Any missing file, missing
// required column, or malformed row is an error: the snapshot must never be
// partially loaded.
func LoadTables(dir string) (Tables, error) {
	var t Tables

	if err := loadCSV(filepath.Join(dir, UsersFile), []string{"id", "name"}, func(row rowReader) error {
		id, err := row.int64("id")
		if err != nil {
			return err
		}
		t.Users = append(t.Users, User{ID: id, Name: row.string("name")})
		return nil
	}); err != nil {
		return Tables{}, err
	}

	trackingCols := []string{"developer_id", "tutorial_id", "first_opened_at", "completed_at", "last_viewed"}
	if err := loadCSV(filepath.Join(dir, ModuleTrackingFile), trackingCols, func(row rowReader) error {
		devID, err := row.int64("developer_id")
		if err != nil {
			return err
		}
		tutID, err := row.int64("tutorial_id")
		if err != nil {
			return err
		}
		opened, err := row.nullableTime("first_opened_at")
		if err != nil {
			return err
		}
		completed, err := row.nullableTime("completed_at")
		if err != nil {
			return err
		}
		viewed, err := row.nullableTime("last_viewed")
		if err != nil {
			return err
		}
		t.ModuleTracking = append(t.ModuleTracking, ModuleTracking{
			DeveloperID: devID,
			TutorialID:  tutID,
			FirstOpened: opened,
			Completed:   completed,
			LastViewed:  viewed,
		})
		return nil
	}); err != nil {
		return Tables{}, err
	}

	if err := loadCSV(filepath.Join(dir, TutorialTypesFile), []string{"id", "type"}, func(row rowReader) error {
		id, err := row.int64("id")
		if err != nil {
			return err
		}
		t.TutorialTypes = append(t.TutorialTypes, TutorialType{ID: id, Type: row.string("type")})
		return nil
	}); err != nil {
		return Tables{}, err
	}

	if err := loadCSV(filepath.Join(dir, ExamRegistrationsFile), []string{"id", "examinee_id"}, func(row rowReader) error {
		id, err := row.int64("id")
		if err != nil {
			return err
		}
		examinee, err := row.int64("examinee_id")
		if err != nil {
			return err
		}
		t.ExamRegistrations = append(t.ExamRegistrations, ExamRegistration{ID: id, ExamineeID: examinee})
		return nil
	}); err != nil {
		return Tables{}, err
	}

	resultCols := []string{"exam_registration_id", "score", "is_passed"}
	if err := loadCSV(filepath.Join(dir, ExamResultsFile), resultCols, func(row rowReader) error {
		regID, err := row.int64("exam_registration_id")
		if err != nil {
			return err
		}
		score, err := row.float64("score")
		if err != nil {
			return err
		}
		t.ExamResults = append(t.ExamResults, ExamResult{
			RegistrationID: regID,
			Score:          score,
			Passed:         row.bool("is_passed"),
		})
		return nil
	}); err != nil {
		return Tables{}, err
	}

	if err := loadCSV(filepath.Join(dir, SubmissionsFile), []string{"submitter_id", "rating"}, func(row rowReader) error {
		submitter, err := row.int64("submitter_id")
		if err != nil {
			return err
		}
		rating, err := row.nullableFloat64("rating")
		if err != nil {
			return err
		}
		t.Submissions = append(t.Submissions, Submission{SubmitterID: submitter, Rating: rating})
		return nil
	}); err != nil {
		return Tables{}, err
	}

	return t, nil
}

// rowReader provides typed access to one CSV record by column name.
type rowReader struct {
	cols   map[string]int
	record []string
}

func (r rowReader) string(col string) string {
	return strings.TrimSpace(r.record[r.cols[col]])
}

func (r rowReader) int64(col string) (int64, error) {
	raw := r.string(col)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q value %q", ErrMalformedRow, col, raw)
	}
	return v, nil
}

func (r rowReader) float64(col string) (float64, error) {
	raw := r.string(col)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %q value %q", ErrMalformedRow, col, raw)
	}
	return v, nil
}

func (r rowReader) bool(col string) bool {
	switch strings.ToLower(r.string(col)) {
	case "true", "t", "1", "yes":
		return true
	default:
		return false
	}
}

func (r rowReader) nullableTime(col string) (*time.Time, error) {
	raw := r.string(col)
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q value %q", ErrMalformedRow, col, raw)
	}
	return &v, nil
}

func (r rowReader) nullableFloat64(col string) (*float64, error) {
	raw := r.string(col)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: column %q value %q", ErrMalformedRow, col, raw)
	}
	return &v, nil
}

// loadCSV streams one CSV file, validating the header before any row is
// consumed.
func loadCSV(path string, required []string, consume func(rowReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return fmt.Errorf("%w: %q in %s", ErrMissingColumn, col, path)
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		if err := consume(rowReader{cols: cols, record: record}); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}
