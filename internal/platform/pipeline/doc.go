// Package pipeline implements the per-item video processing collaborator:
// given a video URL it produces a concise summary using Google's Gemini
// API, which ingests the video directly. The processor's signature matches
// what the job fan-out worker expects, so one instance serves every batch.
package pipeline
