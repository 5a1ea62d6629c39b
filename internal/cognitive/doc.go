// Package cognitive contains clients for the external language services the
// bot consults: an intent classifier, a translator and a sentiment scorer.
//
// Each client makes one HTTP call per operation with a per-call timeout and
// never retries. Failures are returned as *ServiceError. The sentiment client
// is the exception for bad payloads: a response without a usable score is
// reported as NeutralScore.
//
// When an endpoint is not configured the bot uses the offline stand-ins
// PassthroughTranslator, EmptyClassifier and NeutralSentiment.
package cognitive
