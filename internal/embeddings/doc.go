// Package embeddings turns normalized code text into embedding vectors.
//
// A Provider talks to one embedding backend and returns RawOutput, which is
// either a single pooled vector or a sequence of per-token vectors. The
// Adapter wraps a provider with a per-call timeout, an optional rate limit,
// metrics and logging, and reports every failure as ErrUnavailable so callers
// have exactly one signal to fall back on. Pool reduces RawOutput to a single
// unit-length vector.
//
// Supported backends:
//
//	none         always unavailable (fallback-only operation)
//	tei          Text Embeddings Inference (/embed, /embed_all)
//	huggingface  Hugging Face Inference API feature extraction
//	fastembed    local ONNX models (requires cgo)
//	openai       OpenAI-compatible /embeddings via langchaingo
//	gemini       Google Gemini embedding models
//	ollama       local Ollama server
package embeddings
