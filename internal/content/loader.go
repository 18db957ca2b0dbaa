package content

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"consulthub/internal/catalog"
	"consulthub/pkg/models"
)

// Data files read from the content directory. A missing file is an empty
// collection.
const (
	ProjectsFile    = "projects.json"
	InvestmentsFile = "investments.json"
	ServicesFile    = "services.json"
	SamplesFile     = "samples.json"
	SamplesDir      = "samples"
)

// Snapshot is one consistent load of every collection. It is never modified
// after Load returns.
type Snapshot struct {
	Dir         string
	Projects    *catalog.Index
	Investments *catalog.Index
	Services    []models.Service
	Samples     []models.Sample
	Reports     map[string]catalog.Report
	LoadedAt    time.Time
}

func (s *Snapshot) Collection(kind string) *catalog.Index {
	switch kind {
	case models.KindProject:
		return s.Projects
	case models.KindInvestment:
		return s.Investments
	}
	return nil
}

func (s *Snapshot) Service(id string) (models.Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}

func (s *Snapshot) Sample(id string) (models.Sample, bool) {
	for _, sm := range s.Samples {
		if sm.ID == id {
			return sm, true
		}
	}
	return models.Sample{}, false
}

// SamplePath returns the absolute path of a sample's file.
func (s *Snapshot) SamplePath(sm models.Sample) string {
	return filepath.Join(s.Dir, SamplesDir, filepath.FromSlash(sm.File))
}

// Load reads and normalizes every data file under dir.
func Load(dir string, n *catalog.Normalizer) (*Snapshot, error) {
	if n == nil {
		n = catalog.NewNormalizer(nil)
	}

	var files [4][]json.RawMessage
	for i, name := range []string{ProjectsFile, InvestmentsFile, ServicesFile, SamplesFile} {
		elems, err := readArray(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files[i] = elems
	}

	pr, prRep := n.NormalizeJSON(models.KindProject, files[0])
	ir, irRep := n.NormalizeJSON(models.KindInvestment, files[1])
	svcs, svcRep := normalizeServices(files[2])
	sms, smRep := normalizeSamples(files[3])

	return &Snapshot{
		Dir:         dir,
		Projects:    catalog.NewIndex(models.KindProject, pr),
		Investments: catalog.NewIndex(models.KindInvestment, ir),
		Services:    svcs,
		Samples:     sms,
		Reports: map[string]catalog.Report{
			ProjectsFile:    prRep,
			InvestmentsFile: irRep,
			ServicesFile:    svcRep,
			SamplesFile:     smRep,
		},
		LoadedAt: time.Now(),
	}, nil
}

// readArray splits a data file into its array elements. Elements are decoded
// one by one later so a single bad record cannot reject the file.
func readArray(path string) ([]json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "content: read %s", path)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return nil, eris.Wrapf(err, "content: decode %s", path)
	}
	return elems, nil
}

// decodeEach unmarshals every element into T, counting failures as malformed.
func decodeEach[T any](elems []json.RawMessage, rep *catalog.Report) []T {
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			rep.Drop(catalog.DropMalformed)
			continue
		}
		out = append(out, v)
	}
	return out
}

func normalizeServices(elems []json.RawMessage) ([]models.Service, catalog.Report) {
	rep := catalog.Report{Input: len(elems)}
	raws := decodeEach[models.RawService](elems, &rep)
	out := make([]models.Service, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		id, ok := rawID(raw.ID)
		if !ok {
			rep.Drop(catalog.DropMissingID)
			continue
		}
		title := raw.Title.Text()
		if title.IsZero() {
			rep.Drop(catalog.DropMissingName)
			continue
		}
		if _, dup := seen[id]; dup {
			rep.Drop(catalog.DropDuplicateID)
			continue
		}
		seen[id] = struct{}{}

		svc := models.Service{
			ID:      id,
			Title:   title,
			Summary: raw.Summary.Text(),
			Icon:    raw.Icon,
		}
		for _, f := range raw.Features {
			if !f.IsZero() {
				svc.Features = append(svc.Features, f.Text())
			}
		}
		out = append(out, svc)
	}
	rep.Output = len(out)
	return out, rep
}

const dropUnsafeFile = "unsafe_file"

func normalizeSamples(elems []json.RawMessage) ([]models.Sample, catalog.Report) {
	rep := catalog.Report{Input: len(elems)}
	raws := decodeEach[models.RawSample](elems, &rep)
	out := make([]models.Sample, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		id, ok := rawID(raw.ID)
		if !ok {
			rep.Drop(catalog.DropMissingID)
			continue
		}
		title := raw.Title.Text()
		if title.IsZero() {
			rep.Drop(catalog.DropMissingName)
			continue
		}
		file := strings.TrimSpace(raw.File)
		if !filepath.IsLocal(filepath.FromSlash(file)) {
			rep.Drop(dropUnsafeFile)
			continue
		}
		if _, dup := seen[id]; dup {
			rep.Drop(catalog.DropDuplicateID)
			continue
		}
		seen[id] = struct{}{}

		out = append(out, models.Sample{
			ID:          id,
			Title:       title,
			Description: raw.Description.Text(),
			Category:    raw.Category.Text(),
			File:        file,
			Pages:       catalog.CoerceInt(raw.Pages),
		})
	}
	rep.Output = len(out)
	return out, rep
}

func rawID(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		s = n.String()
	}
	s = strings.TrimSpace(s)
	return s, catalog.IsURLSafe(s)
}
