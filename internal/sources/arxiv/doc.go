// Package arxiv implements a paper source backed by the arXiv API.
//
// Paper discovery goes through the Atom query endpoint
// (export.arxiv.org/api/query): Search issues relevance-ranked
// free-text queries and Lookup resolves explicit id lists. PDF
// artifacts are downloaded from arxiv.org/pdf. Ids keep whatever
// version suffix the API reports, and old-style ids retain their
// archive prefix (cond-mat/0703123v1).
//
// # Rate Limiting
//
// arXiv asks clients for one request every three seconds. A shared
// Gate enforces that spacing proactively with a token bucket and
// reacts to HTTP 429/503 responses by honouring Retry-After before the
// next request. All Source methods pass through the same gate, so
// concurrent ingestion workers never exceed the spacing between them.
//
// # Error Handling
//
// Throttle responses surface as [RateLimitError] and other non-success
// responses as [APIError]. The retry policy replays throttled,
// server-side and transport failures with exponential backoff and
// gives up on everything else; [IsRetryable] is the classifier.
package arxiv
