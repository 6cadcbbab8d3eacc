package agent

import (
	"context"
	"fmt"
	"strings"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/ebalow01/yast-sub001/docs"
	"github.com/ebalow01/yast-sub001/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the facilitator chairing the expert round.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the latest analysis of his income ETFs:
			which tickers passed the screen, how the two strategies compare, and what the
			risk numbers mean. Check the latest report first so you know his universe.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns the market news expert, grounded by Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of all the financial products and institutions,
		and of the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert holding the function library over the
// analysis toolkit. reportPath is where the latest JSON report lives.
func NewAnalyst(reportPath string) *Expert {
	lib := []Function{latestReport(reportPath), tickerResult(reportPath), methodology()}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's income ETF
		analysis report: the ranking, both strategy returns, risk, forward yield and the
		screening categories, and he knows the methodology behind every number.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's income ETF report.
				You know how to use the Tools to read the latest report, look up a single
				ticker, and explain the methodology behind the numbers.
				You are part of a team of experts; yours is everything about the analysis
				results. Pardon their approximative language and figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func latestReport(reportPath string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "LatestReport",
			Description: `LatestReport returns the most recent analysis report as a markdown
			document: ranked tickers, their returns under both strategies, risk, forward
			yield and screening category.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			rep, err := yast.ReadReportFile(reportPath)
			if err != nil {
				return errResponse(id, "LatestReport", fmt.Errorf("no report available, run an analysis first: %w", err))
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "LatestReport",
				Response: map[string]any{
					"output": renderer.ReportMarkdown(&rep),
				},
			}
		},
	}
}

func tickerResult(reportPath string) Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "TickerResult",
			Description: `TickerResult returns the analysis of a single ticker from the most recent report.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"ticker": {
						Type:        genai.TypeString,
						Description: "The ticker symbol, e.g. ULTY.",
					},
				},
				Required: []string{"ticker"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the ticker's metrics.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ticker, err := parseTicker(args)
			if err != nil {
				return errResponse(id, "TickerResult", err)
			}
			rep, err := yast.ReadReportFile(reportPath)
			if err != nil {
				return errResponse(id, "TickerResult", fmt.Errorf("no report available, run an analysis first: %w", err))
			}
			res, ok := rep.Result(ticker)
			if !ok {
				return errResponse(id, "TickerResult", fmt.Errorf("%s is not in the latest report", ticker))
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "TickerResult",
				Response: map[string]any{
					"output": renderer.ResultMarkdown(res),
				},
			}
		},
	}
}

func methodology() Function {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Methodology",
			Description: `Methodology explains how the report numbers are computed.

			` + must(docs.GetTopic("readme")),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {
						Type:        genai.TypeString,
						Description: "One of the documented topics, or * for all of them. Default *.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown documentation of the topic.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic := "*"
			if v, ok := args["topic"]; ok {
				s, ok := v.(string)
				if !ok {
					return errResponse(id, "Methodology", fmt.Errorf("argument 'topic' is not a string as expected but %T", v))
				}
				topic = s
			}
			content, err := docs.GetTopic(topic)
			if err != nil {
				return errResponse(id, "Methodology", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Methodology",
				Response: map[string]any{
					"output": content,
				},
			}
		},
	}
}

func parseTicker(args map[string]any) (string, error) {
	v, ok := args["ticker"]
	if !ok {
		return "", fmt.Errorf("argument 'ticker' is required")
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument 'ticker' is not a string as expected but %T", v)
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if err := yast.ValidateTicker(s); err != nil {
		return "", err
	}
	return s, nil
}
