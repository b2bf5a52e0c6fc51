// Package client builds the reasoning backend selected by configuration.
//
// The Client wraps one provider implementation behind [scout.Reasoner] and
// adds:
//
//   - Provider selection: anthropic, openai, google (Gemini API), or vertex
//   - Default generation options, overridden per request
//   - Request logging with model and duration
//
// # Basic Usage
//
//	r, err := client.New(ctx, client.Config{
//	    Provider: scout.ProviderGoogle,
//	    APIKey:   os.Getenv("GEMINI_API_KEY"),
//	}, client.WithDefaultTemperature(0.2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := r.Generate(ctx, prompt)
//
// # Vertex AI
//
// Vertex uses Application Default Credentials instead of an API key:
//
//	r, err := client.New(ctx, client.Config{
//	    Provider: scout.ProviderVertex,
//	    Project:  "my-project",
//	    Location: "us-central1",
//	})
package client
