package queryrouter

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/tmc/langchaingo/llms"

	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
	"github.com/shagatomte19/bus-booking-system-rag/internal/rag"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
	"github.com/shagatomte19/bus-booking-system-rag/internal/services"
	"github.com/shagatomte19/bus-booking-system-rag/internal/vectorstore"
)

// queuedCompleter pops a scripted reply per call.
type queuedCompleter struct {
	replies []string
	prompts []string
}

func (q *queuedCompleter) Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	q.prompts = append(q.prompts, prompt)
	if len(q.replies) == 0 {
		return "", nil
	}
	reply := q.replies[0]
	q.replies = q.replies[1:]
	return reply, nil
}

func TestClassify(t *testing.T) {
	r := &Router{}
	cases := []struct {
		question string
		want     QueryType
	}{
		{"Show bus from Dhaka to Sylhet under 500 taka", TypeRouteSearch},
		{"Which buses operate between Dhaka and Khulna?", TypeRouteSearch},
		{"What is the phone number for Green Line?", TypeProviderInfo},
		{"Tell me about the refund policy", TypeProviderInfo},
		{"hello there", TypeGeneral},
	}
	for _, tc := range cases {
		if got := r.Classify(tc.question); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestClassify_ProviderWinsPositiveTie(t *testing.T) {
	// one route keyword ("price") and one provider keyword ("refund")
	r := &Router{}
	if got := r.Classify("refund price"); got != TypeProviderInfo {
		t.Fatalf("positive tie should classify as provider_info, got %s", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"```json\n{\n\"a\":1\n}\n```", "{\n\"a\":1\n}"},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateNaturalResponse_ErrorFirst(t *testing.T) {
	r := &Router{LLM: &queuedCompleter{replies: []string{"should not be used"}}}
	data := RouteSearchData{Err: "database unavailable"}

	got := r.GenerateNaturalResponse(context.Background(), "q", responsePayload{route: &data}, TypeRouteSearch)
	if !strings.Contains(got, "database unavailable") {
		t.Fatalf("error message should surface, got %q", got)
	}
}

func TestGenerateNaturalResponse_TemplateMode(t *testing.T) {
	r := &Router{}

	found := RouteSearchData{
		Found: true,
		Results: []models.SearchResult{
			{ProviderName: "Green Line", FromDistrict: "Dhaka", ToDistrict: "Sylhet", DropPoint: "Kadamtali Bus Terminal", Price: 550},
		},
	}
	got := r.GenerateNaturalResponse(context.Background(), "q", responsePayload{route: &found}, TypeRouteSearch)
	if !strings.HasPrefix(got, "Found 1 bus(es):") {
		t.Fatalf("template listing expected, got %q", got)
	}
	if !strings.Contains(got, "৳550") {
		t.Fatalf("price missing from listing: %q", got)
	}

	empty := RouteSearchData{}
	got = r.GenerateNaturalResponse(context.Background(), "q", responsePayload{route: &empty}, TypeRouteSearch)
	if !strings.Contains(got, "No buses found") {
		t.Fatalf("empty route search should explain, got %q", got)
	}

	got = r.GenerateNaturalResponse(context.Background(), "q", responsePayload{}, TypeGeneral)
	if got != "API key not configured." {
		t.Fatalf("general template answer wrong: %q", got)
	}
}

func TestAnswerQuestion_RouteSearchFlow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM districts").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Dhaka").AddRow("Sylhet"))
	mock.ExpectQuery("SELECT id, name FROM districts WHERE name").
		WithArgs("Dhaka").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Dhaka"))
	mock.ExpectQuery("SELECT id, name FROM districts WHERE name").
		WithArgs("Sylhet").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Sylhet"))
	mock.ExpectQuery("HAVING COUNT").
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Green Line"))
	mock.ExpectQuery(`AND price <= \?`).
		WithArgs(int64(5), int64(600)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "district_id", "name", "price"}).
			AddRow(10, 5, "Kadamtali Bus Terminal", 550))

	stub := &queuedCompleter{replies: []string{
		"```json\n{\"from_district\": \"Dhaka\", \"to_district\": \"Sylhet\", \"max_price\": 600}\n```",
		"Green Line runs Dhaka to Sylhet for 550 taka.",
	}}

	r := &Router{
		LLM:       stub,
		Search:    services.SearchService{DistrictRepo: repositories.DistrictRepo{DB: db}, ProviderRepo: repositories.ProviderRepo{DB: db}, DB: db},
		Districts: repositories.DistrictRepo{DB: db},
	}

	answer := r.AnswerQuestion(context.Background(), "Show bus from Dhaka to Sylhet under 600 taka")
	if answer.Type != TypeRouteSearch {
		t.Fatalf("expected route_search, got %s", answer.Type)
	}
	if len(answer.Data) != 1 || answer.Data[0].DropPoint != "Kadamtali Bus Terminal" {
		t.Fatalf("unexpected data: %+v", answer.Data)
	}
	if answer.Answer != "Green Line runs Dhaka to Sylhet for 550 taka." {
		t.Fatalf("unexpected answer: %q", answer.Answer)
	}
	if len(stub.prompts) != 2 {
		t.Fatalf("expected extraction and response prompts, got %d", len(stub.prompts))
	}
	if !strings.Contains(stub.prompts[0], "Available districts: Dhaka, Sylhet") {
		t.Fatalf("extraction prompt missing district hint: %q", stub.prompts[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchRoutes_MissingParamsSkipLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM districts").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Dhaka"))

	stub := &queuedCompleter{replies: []string{`{"from_district": "Dhaka", "to_district": null, "max_price": null}`}}
	r := &Router{
		LLM:       stub,
		Districts: repositories.DistrictRepo{DB: db},
	}

	data := r.SearchRoutes(context.Background(), "buses from Dhaka")
	if data.Err != "" {
		t.Fatalf("missing destination is not an error, got %q", data.Err)
	}
	if data.Found || len(data.Results) != 0 {
		t.Fatalf("expected no results, got %+v", data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}

func TestAnswerQuestion_ProviderInfoUsesRAG(t *testing.T) {
	stub := &queuedCompleter{replies: []string{
		"Call Green Line at 16557.",
		"final formatted answer",
	}}
	r := &Router{
		LLM: stub,
		RAG: rag.NewPipeline(emptyStore{}, stub),
	}

	answer := r.AnswerQuestion(context.Background(), "What is the phone number for Green Line?")
	if answer.Type != TypeProviderInfo {
		t.Fatalf("expected provider_info, got %s", answer.Type)
	}
	if answer.Answer == "" {
		t.Fatalf("expected an answer")
	}
}

type emptyStore struct{}

func (emptyStore) Add(ctx context.Context, docs []vectorstore.Document) error { return nil }
func (emptyStore) Query(ctx context.Context, text string, topK int) ([]vectorstore.Document, error) {
	return nil, nil
}
func (emptyStore) Count(ctx context.Context) (int, error) { return 0, nil }
func (emptyStore) Reset(ctx context.Context) error        { return nil }
