package seeder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"skill-ledger/internal/domain/skillmeta"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// xlsxSheet is the worksheet the skills master workbook keeps its rows in.
const xlsxSheet = "SkillMaster"

var errEmptyVocabulary = errors.New("vocabulary is empty")

// Leaf is a level-4 entry of the vocabulary tree.
type Leaf struct {
	Name string `json:"name" bson:"name" yaml:"name"`
	ID   int    `json:"_id" bson:"_id" yaml:"_id"`
}

// Vocabulary upserts a prebuilt tree as the singleton skills document.
type Vocabulary struct {
	Tree interface{}
}

func (Vocabulary) Name() string { return "skills_vocabulary" }

func (v Vocabulary) Run(ctx context.Context, store skillmeta.Repository) error {
	if v.Tree == nil {
		return errEmptyVocabulary
	}
	return store.Put(ctx, v.Tree)
}

// LoadTree reads a vocabulary file. XLSX and CSV rows are grouped into a
// tree, JSON and YAML are taken as already built.
func LoadTree(path string) (interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return BuildTreeFromXLSX(f)
	case ".csv":
		return BuildTree(f)
	case ".json", ".yaml", ".yml":
		return decodeTree(f)
	default:
		return nil, fmt.Errorf("unsupported vocabulary file %q", filepath.Base(path))
	}
}

// decodeTree uses the YAML decoder for JSON too so integer ids stay integers.
func decodeTree(r io.Reader) (interface{}, error) {
	var tree map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyVocabulary
		}
		return nil, err
	}
	if len(tree) == 0 {
		return nil, errEmptyVocabulary
	}
	return tree, nil
}

// BuildTree groups four-column CSV rows (Level 1..4, no header) into nested
// objects keyed by name.
func BuildTree(r io.Reader) (map[string]interface{}, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return groupRows(rows, 1)
}

// BuildTreeFromXLSX reads the SkillMaster sheet. Its first row is a header
// naming the "Level 1".."Level 4" columns, which may sit anywhere in the row.
func BuildTreeFromXLSX(r io.Reader) (map[string]interface{}, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", xlsxSheet, err)
	}
	if len(rows) == 0 {
		return nil, errEmptyVocabulary
	}

	cols := make([]int, 4)
	for lvl := range cols {
		cols[lvl] = -1
		want := fmt.Sprintf("level %d", lvl+1)
		for i, h := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				cols[lvl] = i
				break
			}
		}
		if cols[lvl] < 0 {
			return nil, fmt.Errorf("sheet %s: missing column %q", xlsxSheet, fmt.Sprintf("Level %d", lvl+1))
		}
	}

	picked := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make([]string, 4)
		for lvl, c := range cols {
			if c < len(row) {
				rec[lvl] = row[c]
			}
		}
		picked = append(picked, rec)
	}
	return groupRows(picked, 2)
}

// groupRows builds the tree from Level 1..4 records. Levels 1-3 are visited
// in sorted order and leaves in row order; leaf ids are assigned sequentially
// from 1 along that walk. firstLine numbers the first record in errors.
func groupRows(rows [][]string, firstLine int) (map[string]interface{}, error) {
	grouped := map[string]map[string]map[string][]string{}
	for n, rec := range rows {
		line := firstLine + n
		if blankRecord(rec) {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 columns, got %d", line, len(rec))
		}

		l1, l2, l3, l4 := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2]), strings.TrimSpace(rec[3])
		if l1 == "" || l2 == "" || l3 == "" || l4 == "" {
			return nil, fmt.Errorf("line %d: empty level", line)
		}
		if grouped[l1] == nil {
			grouped[l1] = map[string]map[string][]string{}
		}
		if grouped[l1][l2] == nil {
			grouped[l1][l2] = map[string][]string{}
		}
		grouped[l1][l2][l3] = append(grouped[l1][l2][l3], l4)
	}
	if len(grouped) == 0 {
		return nil, errEmptyVocabulary
	}

	nextID := 0
	tree := make(map[string]interface{}, len(grouped))
	for _, k1 := range sortedKeys(grouped) {
		lvl2 := grouped[k1]
		out2 := make(map[string]interface{}, len(lvl2))
		for _, k2 := range sortedKeys(lvl2) {
			lvl3 := lvl2[k2]
			out3 := make(map[string]interface{}, len(lvl3))
			for _, k3 := range sortedKeys(lvl3) {
				leaves := make([]Leaf, 0, len(lvl3[k3]))
				for _, name := range lvl3[k3] {
					nextID++
					leaves = append(leaves, Leaf{Name: name, ID: nextID})
				}
				out3[k3] = leaves
			}
			out2[k2] = out3
		}
		tree[k1] = out2
	}
	return tree, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
