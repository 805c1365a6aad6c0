package etl

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"statsetl/internal/config"
	"statsetl/internal/storage"
	_ "statsetl/internal/storage/sqlite"
)

const hrCSV = `Rank,Name,HR (HR/G),Notes
1,Babe Ruth,714 (0.09),
,Hank Aaron,755 (0.07),
1,Babe Ruth,714 (0.09),
`

const eraCSV = `Rank,Name,ERA
1,Ed Walsh,"1.82"
2,Addie Joss,1.89
`

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newSpec(root string) config.Pipeline {
	p := config.Pipeline{
		Job: "test",
		Sources: []config.Source{
			{Category: "hitting", Kind: "dir", Path: filepath.Join(root, "raw", "hitting")},
			{Category: "pitching", Kind: "dir", Path: filepath.Join(root, "raw", "pitching")},
		},
		Parser:  config.Parser{Kind: "csv"},
		Output:  config.Output{CleanDir: filepath.Join(root, "clean")},
		Storage: config.Storage{Kind: "sqlite", DB: config.DBConfig{Replace: true}},
		Runtime: config.RuntimeConfig{Workers: 2},
	}
	p.ApplyDefaults()
	return p
}

func newRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo
}

func TestRunCleansExportsAndLoads(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw", "hitting", "Career Leaders-HR.csv"), hrCSV)
	writeFile(t, filepath.Join(root, "raw", "pitching", "ERA.csv"), eraCSV)
	writeFile(t, filepath.Join(root, "raw", "pitching", "readme.txt"), "ignored")

	repo := newRepo(t)
	sum, err := Run(context.Background(), newSpec(root), repo, false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Files != 2 || sum.Cleaned != 2 || sum.Failed != 0 {
		t.Fatalf("summary=%+v; want 2 files cleaned", sum)
	}
	if sum.RawRows != 5 || sum.CleanRows != 4 || sum.Loaded != 4 {
		t.Fatalf("summary rows=%+v; want raw 5 clean 4 loaded 4", sum)
	}

	b, err := os.ReadFile(filepath.Join(root, "clean", "hitting", "Career Leaders-HR.csv"))
	if err != nil {
		t.Fatalf("clean csv: %v", err)
	}
	want := "Rank,Name,HR,HR/G\n1,Babe Ruth,714,0.09\n2,Hank Aaron,755,0.07\n"
	if string(b) != want {
		t.Fatalf("clean csv=\n%s\nwant:\n%s", b, want)
	}

	res, err := repo.Query(context.Background(),
		`SELECT rank, name, hr, "hr/g", source FROM career_leaders_hr ORDER BY rank`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	wantRows := [][]any{
		{int64(1), "Babe Ruth", int64(714), 0.09, "hitting"},
		{int64(2), "Hank Aaron", int64(755), 0.07, "hitting"},
	}
	if !reflect.DeepEqual(res.Rows(), wantRows) {
		t.Fatalf("rows=%#v; want %#v", res.Rows(), wantRows)
	}

	tables, err := repo.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"career_leaders_hr", "era"}) {
		t.Fatalf("tables=%v", tables)
	}
}

func TestRunContinuesPastBadFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw", "hitting", "Empty.csv"), "Rank,Name\n,\n")
	writeFile(t, filepath.Join(root, "raw", "hitting", "NoHeader.csv"), "")
	writeFile(t, filepath.Join(root, "raw", "pitching", "ERA.csv"), eraCSV)

	sum, err := Run(context.Background(), newSpec(root), newRepo(t), false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Files != 3 || sum.Cleaned != 1 || sum.Failed != 2 {
		t.Fatalf("summary=%+v; want 1 cleaned 2 failed", sum)
	}
	for _, f := range sum.Failures {
		if !strings.Contains(f, "Empty.csv") && !strings.Contains(f, "NoHeader.csv") {
			t.Fatalf("unexpected failure %q", f)
		}
	}
}

func TestRunSameTableLastFileWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw", "hitting", "Games.csv"), "Rank,Name,G\n1,Pete Rose,3562\n")
	writeFile(t, filepath.Join(root, "raw", "pitching", "Games.csv"), "Rank,Name,G\n1,Cy Young,906\n2,Jim Kaat,898\n")

	repo := newRepo(t)
	if _, err := Run(context.Background(), newSpec(root), repo, false); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	res, err := repo.Query(context.Background(), `SELECT name, source FROM games ORDER BY rank`)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	want := [][]any{{"Cy Young", "pitching"}, {"Jim Kaat", "pitching"}}
	if !reflect.DeepEqual(res.Rows(), want) {
		t.Fatalf("rows=%#v; want %#v", res.Rows(), want)
	}
}

func TestRunWithoutStore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw", "pitching", "ERA.csv"), eraCSV)
	spec := newSpec(root)
	spec.Storage.Kind = "none"

	sum, err := Run(context.Background(), spec, nil, false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Cleaned != 1 || sum.Loaded != 0 {
		t.Fatalf("summary=%+v", sum)
	}
	if _, err := os.Stat(filepath.Join(root, "clean", "pitching", "ERA.csv")); err != nil {
		t.Fatalf("clean csv missing: %v", err)
	}
}

func TestRunHTMLSources(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	page := `<html><head><title>Single Season Leaders - Home Runs | Baseball Almanac</title></head><body>
<div class="ba-table"><table>
<tr><td class="banner">Rank</td><td class="banner">Name</td><td class="banner">HR</td></tr>
<tr><td>1</td><td>Barry Bonds</td><td>73</td></tr>
<tr><td></td><td>Mark McGwire</td><td>70</td></tr>
</table></div></body></html>`
	writeFile(t, filepath.Join(root, "raw", "hitting", "hr.html"), page)
	spec := newSpec(root)
	spec.Parser.Kind = "html"
	spec.Storage.Kind = "none"

	sum, err := Run(context.Background(), spec, nil, false)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Cleaned != 1 {
		t.Fatalf("summary=%+v", sum)
	}
	b, err := os.ReadFile(filepath.Join(root, "clean", "hitting", "hr.csv"))
	if err != nil {
		t.Fatalf("clean csv: %v", err)
	}
	if want := "Rank,Name,HR\n1,Barry Bonds,73\n2,Mark McGwire,70\n"; string(b) != want {
		t.Fatalf("clean csv=%q; want %q", b, want)
	}
}

func TestRunRejectsUnknownParser(t *testing.T) {
	t.Parallel()

	spec := newSpec(t.TempDir())
	spec.Parser.Kind = "xlsx"
	if _, err := Run(context.Background(), spec, nil, false); err == nil {
		t.Fatalf("Run error=nil; want unsupported parser error")
	}
}

func TestPrepareForStore(t *testing.T) {
	t.Parallel()

	spec := newSpec(t.TempDir())
	p, err := newParser(spec.Parser)
	if err != nil {
		t.Fatalf("newParser: %v", err)
	}
	raw, _, err := p.Parse(strings.NewReader("Rank,Player Name,SO,so\n1,Nolan Ryan,5714,x\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := prepareForStore(raw, "source", "pitching")
	want := []string{"rank", "player_name", "so", "so_2", "source"}
	if !reflect.DeepEqual(got.Names(), want) {
		t.Fatalf("names=%v; want %v", got.Names(), want)
	}
	if raw.NumCols() != 4 {
		t.Fatalf("prepareForStore modified its input: %v", raw.Names())
	}
}
