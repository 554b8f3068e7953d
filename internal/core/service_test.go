package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"

	"github.com/JonMunkholm/csvplot/internal/csvdoc"
	"github.com/JonMunkholm/csvplot/internal/store"
)

const measurementCSV = `# Messung: Raum 4
# Zeit;Temp;Status
0,5;20,1;ok
1,0;20,4;ok
1,5;;fail
2,0;21,0;ok
`

func newTestService(t *testing.T, st UploadStore) *Service {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	svc, err := NewService(st, ServiceConfig{
		MaxFileSize:   1 << 20,
		MaxConcurrent: 2,
		MaxWaitTime:   time.Second,
		Fallback:      charmap.Windows1252,
		Parse:         csvdoc.DefaultOptions(),
		PreviewRows:   2,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestService_Upload(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := ContextWithUserAgent(ContextWithIPAddress(context.Background(), "10.0.0.7"), "curl/8")

	res, err := svc.Upload(ctx, "messung.csv", "", strings.NewReader(measurementCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if got := strings.Join(res.Columns, ","); got != "Zeit,Temp,Status" {
		t.Errorf("Columns = %s", got)
	}
	if res.RowCount != 4 {
		t.Errorf("RowCount = %d, want 4", res.RowCount)
	}
	if !res.HasMetadata || len(res.Metadata) != 1 || res.Metadata[0] != "# Messung: Raum 4" {
		t.Errorf("Metadata = %v (has %v)", res.Metadata, res.HasMetadata)
	}
	if len(res.Preview) != 2 {
		t.Fatalf("Preview rows = %d, want 2", len(res.Preview))
	}
	if f, ok := res.Preview[0]["Temp"].Float(); !ok || f != 20.1 {
		t.Errorf("Preview[0].Temp = %v", res.Preview[0]["Temp"])
	}

	stored, err := svc.store.Get(ctx, res.UploadID)
	if err != nil {
		t.Fatalf("stored upload: %v", err)
	}
	if stored.RemoteAddr != "10.0.0.7" || stored.UserAgent != "curl/8" {
		t.Errorf("client info = %q/%q", stored.RemoteAddr, stored.UserAgent)
	}
	if stored.FileName != "messung.csv" {
		t.Errorf("FileName = %q", stored.FileName)
	}
}

func TestService_UploadRejects(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		body        string
		wantErr     error
	}{
		{"wrong extension", "notes.txt", "text/plain", "a,b\n1,2\n", ErrInvalidFileType},
		{"empty", "empty.csv", "", "", ErrEmptyFile},
		{"whitespace only", "blank.csv", "", "\n  \n", ErrEmptyFile},
		{"bom only", "bom.csv", "", "\xEF\xBB\xBF", ErrEmptyFile},
		{"too large", "big.csv", "", strings.Repeat("1,2\n", 300000), ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil)
			_, err := svc.Upload(context.Background(), tt.fileName, tt.contentType, strings.NewReader(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	svc := newTestService(t, nil)
	if _, err := svc.Upload(context.Background(), "x.csv", "", nil); !errors.Is(err, ErrNoFile) {
		t.Errorf("nil reader error = %v, want ErrNoFile", err)
	}
}

func TestService_UploadAcceptsCSVContentType(t *testing.T) {
	svc := newTestService(t, nil)
	res, err := svc.Upload(context.Background(), "export", "text/csv; charset=utf-8", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", res.RowCount)
	}
}

func TestService_UploadWindows1252(t *testing.T) {
	svc := newTestService(t, nil)
	body := "Zeit;Temp\xe9rature\n1;2\n"

	res, err := svc.Upload(context.Background(), "latin.csv", "", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Columns[1] != "Température" {
		t.Errorf("Columns[1] = %q, want Température", res.Columns[1])
	}
}

func TestService_UploadBusy(t *testing.T) {
	svc, err := NewService(store.NewMemoryStore(), ServiceConfig{
		MaxConcurrent: 1,
		MaxWaitTime:   20 * time.Millisecond,
		Parse:         csvdoc.DefaultOptions(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if !svc.Limiter().TryAcquire() {
		t.Fatal("TryAcquire failed")
	}
	defer svc.Limiter().Release()

	_, err = svc.Upload(context.Background(), "a.csv", "", strings.NewReader("a\n1\n"))
	if !errors.Is(err, ErrTooManyUploads) {
		t.Errorf("Upload error = %v, want ErrTooManyUploads", err)
	}
}

type failingStore struct {
	*store.MemoryStore
	err error
}

func (f failingStore) Save(context.Context, store.Upload) error {
	return f.err
}

func TestService_UploadStoreFailure(t *testing.T) {
	svc := newTestService(t, failingStore{store.NewMemoryStore(), errors.New("connection refused")})

	_, err := svc.Upload(context.Background(), "a.csv", "", strings.NewReader("a\n1\n"))
	if err == nil || !strings.Contains(err.Error(), "save upload") {
		t.Fatalf("Upload error = %v", err)
	}
	if MapError(err).Code != "DB001" {
		t.Errorf("MapError code = %q, want DB001", MapError(err).Code)
	}
}

func TestService_Get(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	up, err := svc.Upload(ctx, "messung.csv", "", strings.NewReader(measurementCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, err := svc.Get(ctx, up.UploadID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RowCount != up.RowCount || got.FileName != up.FileName {
		t.Errorf("Get = %+v, want %+v", got, up)
	}

	if _, err := svc.Get(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get unknown error = %v, want store.ErrNotFound", err)
	}
}

func TestService_PlotData(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	up, err := svc.Upload(ctx, "messung.csv", "", strings.NewReader(measurementCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	resp, err := svc.PlotData(ctx, PlotRequest{
		UploadID: up.UploadID.String(),
		XColumn:  "Zeit",
		YColumns: []string{"Temp"},
	})
	if err != nil {
		t.Fatalf("PlotData: %v", err)
	}

	if resp.ChartType != ChartLine {
		t.Errorf("ChartType = %q, want line", resp.ChartType)
	}
	if len(resp.PlotData.Labels) != 4 || resp.PlotData.Labels[0] != 0.5 {
		t.Errorf("Labels = %v", resp.PlotData.Labels)
	}
	data := resp.PlotData.Datasets[0].Data
	if data[2] != nil {
		t.Errorf("empty Temp cell should be nil, got %v", *data[2])
	}
	if data[3] == nil || *data[3] != 21 {
		t.Errorf("data[3] = %v, want 21", data[3])
	}
}

func TestService_PlotDataErrors(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	up, err := svc.Upload(ctx, "messung.csv", "", strings.NewReader(measurementCSV))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	id := up.UploadID.String()

	tests := []struct {
		name    string
		req     PlotRequest
		wantErr error
	}{
		{"missing x", PlotRequest{UploadID: id, YColumns: []string{"Temp"}}, ErrMissingPlotColumns},
		{"missing y", PlotRequest{UploadID: id, XColumn: "Zeit"}, ErrMissingPlotColumns},
		{"missing id", PlotRequest{XColumn: "Zeit", YColumns: []string{"Temp"}}, ErrMissingPlotColumns},
		{"bad chart", PlotRequest{UploadID: id, XColumn: "Zeit", YColumns: []string{"Temp"}, ChartType: "pie"}, ErrInvalidChartType},
		{"bad id", PlotRequest{UploadID: "nope", XColumn: "Zeit", YColumns: []string{"Temp"}}, ErrInvalidUploadID},
		{"unknown upload", PlotRequest{UploadID: uuid.NewString(), XColumn: "Zeit", YColumns: []string{"Temp"}}, store.ErrNotFound},
		{"unknown column", PlotRequest{UploadID: id, XColumn: "Zeit", YColumns: []string{"Druck"}}, ErrColumnNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlotData(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PlotData error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Recent(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	empty, err := svc.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Recent on empty store = %v, want empty slice", empty)
	}

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.csv", "b.csv", "c.csv"} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		if _, err := svc.Upload(ctx, name, "", strings.NewReader("x\n1\n")); err != nil {
			t.Fatalf("Upload %s: %v", name, err)
		}
	}

	got, err := svc.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].FileName != "c.csv" || got[1].FileName != "b.csv" {
		t.Errorf("Recent(2) = %+v", got)
	}
}

func TestNewService_InvalidOptions(t *testing.T) {
	opts := csvdoc.DefaultOptions()
	opts.Delimiter = '\t'
	if _, err := NewService(store.NewMemoryStore(), ServiceConfig{Parse: opts}); err == nil {
		t.Error("NewService accepted a tab delimiter")
	}
	if _, err := NewService(nil, ServiceConfig{Parse: csvdoc.DefaultOptions()}); err == nil {
		t.Error("NewService accepted a nil store")
	}
}
