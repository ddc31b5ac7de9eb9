package recipe

// ModelPricing defines input/output token costs in USD per 1M tokens.
// Adapted from the teacher engine's static pricing table; kept small
// and current as of the engine's last update rather than exhaustive.
type ModelPricing struct {
	InputPer1M  float64
	OutputPer1M float64
}

var defaultModelPricing = map[string]ModelPricing{
	"gpt-4o":                     {InputPer1M: 2.50, OutputPer1M: 10.00},
	"gpt-4o-mini":                {InputPer1M: 0.15, OutputPer1M: 0.60},
	"gpt-4-turbo":                {InputPer1M: 10.00, OutputPer1M: 30.00},
	"claude-3-5-sonnet-20241022": {InputPer1M: 3.00, OutputPer1M: 15.00},
	"claude-3-opus-20240229":     {InputPer1M: 15.00, OutputPer1M: 75.00},
	"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},
	"gemini-1.5-pro":             {InputPer1M: 1.25, OutputPer1M: 5.00},
	"gemini-1.5-flash":           {InputPer1M: 0.075, OutputPer1M: 0.30},
}

// estimateCost reads the reserved "model", "input_tokens", and
// "output_tokens" keys from an agent output, if present, and returns a
// USD cost estimate. It returns false when the output carries no usage
// information or names a model with no known pricing — the engine
// never fails a node over a missing price.
func estimateCost(out Output) (float64, bool) {
	if out == nil {
		return 0, false
	}
	modelName, _ := out["model"].(string)
	if modelName == "" {
		return 0, false
	}
	pricing, ok := defaultModelPricing[modelName]
	if !ok {
		return 0, false
	}

	inTok := toFloat(out["input_tokens"])
	outTok := toFloat(out["output_tokens"])
	if inTok == 0 && outTok == 0 {
		return 0, false
	}

	cost := (inTok/1_000_000)*pricing.InputPer1M + (outTok/1_000_000)*pricing.OutputPer1M
	return cost, true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
