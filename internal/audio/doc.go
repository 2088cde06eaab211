// Package audio builds PCM WAV containers for raw audio payloads returned
// by the API. It produces the fixed 44-byte RIFF header from stream metadata
// and provides validation helpers over assembled buffers.
package audio
