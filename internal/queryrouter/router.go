// Package queryrouter classifies free-text questions and produces a
// final natural-language answer, dispatching to either a direct
// relational route search or the RAG pipeline.
package queryrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/shagatomte19/bus-booking-system-rag/internal/domain/models"
	"github.com/shagatomte19/bus-booking-system-rag/internal/llm"
	"github.com/shagatomte19/bus-booking-system-rag/internal/rag"
	"github.com/shagatomte19/bus-booking-system-rag/internal/repositories"
	"github.com/shagatomte19/bus-booking-system-rag/internal/services"
)

type QueryType string

const (
	TypeRouteSearch  QueryType = "route_search"
	TypeProviderInfo QueryType = "provider_info"
	TypeGeneral      QueryType = "general"
)

// Keyword lists the classifier scores against. Literal substring
// matches, case-insensitive.
var routeKeywords = []string{
	"from", "to", "route", "price", "taka", "fare", "cost",
	"bus", "buses", "operate", "operating", "providers",
	"availability", "schedule", "available", "go", "goes",
	"cheapest", "expensive", "show all", "list", "which buses",
	"travel", "journey", "trip",
}

var providerKeywords = []string{
	"contact", "address", "phone", "email", "call", "number",
	"privacy", "policy", "policies", "details", "information",
	"about", "tell me about", "company", "office", "location",
	"refund", "cancellation", "baggage", "discount",
}

// Router orchestrates classification, search and response generation.
// A nil Completer puts response generation in template mode.
type Router struct {
	LLM       llm.Completer
	RAG       *rag.Pipeline
	Search    services.SearchService
	Districts repositories.DistrictRepo
}

// SearchParams are the structured parameters extracted from a question.
type SearchParams struct {
	FromDistrict string `json:"from_district"`
	ToDistrict   string `json:"to_district"`
	MaxPrice     *int64 `json:"max_price"`
}

// RouteSearchData is the outcome of an LLM-extracted route search.
// Err carries soft failures (extraction or lookup); it never aborts the
// answer flow.
type RouteSearchData struct {
	Found   bool
	Results []models.SearchResult
	Params  SearchParams
	Err     string
}

// Answer is the type-tagged response envelope. Data is set for route
// searches, Sources for provider questions, neither for general ones.
type Answer struct {
	Answer  string                `json:"answer"`
	Type    QueryType             `json:"type"`
	Data    []models.SearchResult `json:"data,omitempty"`
	Sources []string              `json:"sources,omitempty"`
}

// Classify scores the question against both keyword lists. Route wins
// only on a strictly higher score; any positive provider score wins
// otherwise, including positive ties.
func (r *Router) Classify(question string) QueryType {
	lower := strings.ToLower(question)

	routeScore := 0
	for _, kw := range routeKeywords {
		if strings.Contains(lower, kw) {
			routeScore++
		}
	}
	providerScore := 0
	for _, kw := range providerKeywords {
		if strings.Contains(lower, kw) {
			providerScore++
		}
	}

	log.Printf("[ROUTER] action=classify msg=scores route=%d provider=%d", routeScore, providerScore)

	if routeScore > providerScore {
		return TypeRouteSearch
	}
	if providerScore > 0 {
		return TypeProviderInfo
	}
	return TypeGeneral
}

const extractPromptTemplate = `Extract bus search parameters from this question. Return a JSON object with these fields:
- from_district: origin district name (or null if not specified)
- to_district: destination district name (or null if not specified)
- max_price: maximum price in taka (or null if not specified)

Available districts: %s

Question: %s

Return ONLY valid JSON, no explanation. Example: {"from_district": "Dhaka", "to_district": "Rajshahi", "max_price": 500}`

// SearchRoutes asks the LLM to extract route parameters from the
// question, then runs the relational search. All failures are folded
// into the returned Err field.
func (r *Router) SearchRoutes(ctx context.Context, question string) RouteSearchData {
	if r.LLM == nil {
		return RouteSearchData{Results: []models.SearchResult{}, Err: "language model not configured"}
	}

	names, err := r.Districts.ListNames()
	if err != nil {
		return RouteSearchData{Results: []models.SearchResult{}, Err: err.Error()}
	}

	prompt := fmt.Sprintf(extractPromptTemplate, strings.Join(names, ", "), question)
	reply, err := r.LLM.Complete(ctx, prompt, llms.WithMaxTokens(200))
	if err != nil {
		log.Printf("[ROUTER] action=extract msg=completion error: %v", err)
		return RouteSearchData{Results: []models.SearchResult{}, Err: err.Error()}
	}

	var params SearchParams
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &params); err != nil {
		log.Printf("[ROUTER] action=extract msg=JSON decode error: %v reply=%q", err, reply)
		return RouteSearchData{Results: []models.SearchResult{}, Err: "failed to parse search parameters"}
	}
	log.Printf("[ROUTER] action=extract msg=parameters from=%q to=%q", params.FromDistrict, params.ToDistrict)

	if params.FromDistrict == "" || params.ToDistrict == "" {
		return RouteSearchData{Results: []models.SearchResult{}, Params: params}
	}

	results, err := r.Search.FindRoutes(params.FromDistrict, params.ToDistrict, params.MaxPrice)
	if err != nil {
		log.Printf("[ROUTER] action=search msg=error searching routes: %v", err)
		return RouteSearchData{Results: []models.SearchResult{}, Params: params, Err: err.Error()}
	}

	return RouteSearchData{
		Found:   len(results) > 0,
		Results: results,
		Params:  params,
	}
}

// stripCodeFence removes a surrounding Markdown code fence, including a
// leading "json" language tag, before strict JSON parsing.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 2 {
		s = strings.Join(lines[1:len(lines)-1], "\n")
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "json") {
		s = strings.TrimSpace(s[4:])
	}
	return s
}

// responsePayload carries whichever result the classified branch
// produced into response generation.
type responsePayload struct {
	route *RouteSearchData
	rag   *rag.Result
}

// GenerateNaturalResponse turns the collected data into the final
// answer text. LLM failures degrade to fixed strings; with no LLM
// configured a deterministic template listing is returned.
func (r *Router) GenerateNaturalResponse(ctx context.Context, question string, data responsePayload, queryType QueryType) string {
	if data.route != nil && data.route.Err != "" {
		return fmt.Sprintf("I encountered an error while searching: %s. Please try rephrasing your question.", data.route.Err)
	}

	if r.LLM == nil {
		if queryType == TypeRouteSearch && data.route != nil && data.route.Found {
			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d bus(es):\n", len(data.route.Results))
			for _, res := range data.route.Results {
				fmt.Fprintf(&sb, "- %s: %s → %s at %s for ৳%d\n", res.ProviderName, res.FromDistrict, res.ToDistrict, res.DropPoint, res.Price)
			}
			return sb.String()
		}
		if queryType == TypeRouteSearch {
			return "No buses found matching your criteria. Please try different districts or a higher price limit."
		}
		return "API key not configured."
	}

	var prompt string
	switch {
	case queryType == TypeRouteSearch && data.route != nil && data.route.Found:
		rows := make([]string, len(data.route.Results))
		for i, res := range data.route.Results {
			rows[i] = fmt.Sprintf("- %s: %s to %s (Drop: %s, Price: ৳%d)", res.ProviderName, res.FromDistrict, res.ToDistrict, res.DropPoint, res.Price)
		}
		prompt = fmt.Sprintf(`The user asked: "%s"

Database query results (REAL DATA):
%s

Provide a helpful response using ONLY the information above. List the buses with their exact prices and drop points. Do not make up any information.`, question, strings.Join(rows, "\n"))

	case queryType == TypeRouteSearch:
		params := SearchParams{}
		if data.route != nil {
			params = data.route.Params
		}
		prompt = fmt.Sprintf(`The user asked: "%s"

Search parameters: %s

NO buses were found in the database matching these criteria. Explain this clearly and suggest trying:
- Different districts
- Higher price limit
- Checking if the route exists`, question, formatParams(params))

	case queryType == TypeProviderInfo:
		answer := "No information found."
		sources := []string{}
		if data.rag != nil {
			if data.rag.Answer != "" {
				answer = data.rag.Answer
			}
			sources = data.rag.Sources
		}
		prompt = fmt.Sprintf(`The user asked: "%s"

Information found:
%s

Sources: %s

Provide a helpful response based ONLY on the information above.`, question, answer, strings.Join(sources, ", "))

	default:
		prompt = fmt.Sprintf(`The user asked: "%s"

Provide a brief, helpful response about the bus booking system. Keep it short and friendly.`, question)
	}

	reply, err := r.LLM.Complete(ctx, prompt, llms.WithMaxTokens(500))
	if err != nil {
		log.Printf("[ROUTER] action=respond msg=error generating response: %v", err)
		return "Sorry, I encountered an error generating a response."
	}
	return reply
}

func formatParams(p SearchParams) string {
	parts := []string{
		fmt.Sprintf("from_district=%q", p.FromDistrict),
		fmt.Sprintf("to_district=%q", p.ToDistrict),
	}
	if p.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max_price=%d", *p.MaxPrice))
	}
	return strings.Join(parts, ", ")
}

// AnswerQuestion runs the full flow: classify, dispatch, respond.
func (r *Router) AnswerQuestion(ctx context.Context, question string) Answer {
	queryType := r.Classify(question)
	log.Printf("[ROUTER] action=answer msg=classified as %s", queryType)

	switch queryType {
	case TypeRouteSearch:
		data := r.SearchRoutes(ctx, question)
		answer := r.GenerateNaturalResponse(ctx, question, responsePayload{route: &data}, queryType)
		rows := []models.SearchResult{}
		if data.Found {
			rows = data.Results
		}
		return Answer{Answer: answer, Type: queryType, Data: rows}

	case TypeProviderInfo:
		result := r.RAG.Ask(ctx, question)
		answer := r.GenerateNaturalResponse(ctx, question, responsePayload{rag: &result}, queryType)
		return Answer{Answer: answer, Type: queryType, Sources: result.Sources}

	default:
		answer := r.GenerateNaturalResponse(ctx, question, responsePayload{}, queryType)
		return Answer{Answer: answer, Type: queryType}
	}
}
