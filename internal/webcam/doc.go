// Package webcam implements the discovery-validate-capture pipeline:
// sitemap ingestion, per-candidate page resolution and rejection sampling,
// still-image capture with bounded retry, solid-frame rejection, and
// location-caption synthesis.
package webcam
