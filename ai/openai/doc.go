// Package openai implements the extraction capability against any
// OpenAI-compatible chat API (Ollama, LocalAI, vLLM, OpenAI itself).
//
// The extractor runs in JSON mode with a schema-bearing system prompt,
// strips markdown fences, and applies a light JSON repair pass before
// parsing. It performs exactly one call per Extract invocation: repair
// retries belong to the pipeline worker, which needs to see every failure
// to accumulate its repair instructions.
package openai
