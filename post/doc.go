// Package post implements the content-generation pipeline: a workflow of
// steps that fetch reference articles and produce post text, an image, a
// captioned meme and a video submission, driven by a user prompt and
// per-artifact feature flags.
//
// Steps communicate through the workflow state under the Key* constants.
// Every artifact key is always present after a run; the Sentinel* values
// distinguish "not requested" from "failed" from "upstream input missing".
// Capability providers (LLM completion, structured extraction, image
// rendering, meme captioning, video synthesis) sit behind the interfaces in
// providers.go and are bundled in [Providers], constructed once at process
// start.
//
// [Pipeline.Create] runs the full graph; [Pipeline.RefineText],
// [Pipeline.RefineMeme] and [Pipeline.Analyze] are standalone follow-up
// operations on previously generated artifacts.
package post
