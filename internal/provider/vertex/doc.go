// Package vertex provides a Gemini reasoner on Google Cloud's Vertex AI.
//
// Vertex AI uses Application Default Credentials (ADC) instead of API keys.
// Credentials are discovered in the following order:
//
//  1. GOOGLE_APPLICATION_CREDENTIALS environment variable (path to service account key)
//  2. gcloud CLI credentials (gcloud auth application-default login)
//  3. Attached service account (GKE Workload Identity, Compute Engine, Cloud Run)
//
// # Usage
//
//	r, err := vertex.New(ctx, "my-project", "us-central1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := r.Generate(ctx, prompt)
package vertex
