// Package asr defines the transcription engine contract and the worker
// process transport shared by the whisper and funasr backends.
//
// Engines are expensive to construct: the first transcription boots a
// Python worker under uv and loads the model into memory. The worker then
// serves every item in the batch over a JSON-per-line protocol until Close,
// so model load cost is paid once per run rather than once per file.
package asr
