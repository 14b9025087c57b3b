package model

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pecha/config"
)

const (
	lookupTimeout = 60 * time.Second
	listTimeout   = 15 * time.Second
	speechTimeout = 120 * time.Second
)

func contextWithListTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), listTimeout)
}

const explainPromptFormat = `Explain the following passage from the document under discussion. If it is Tibetan or Chinese, gloss difficult terms. Keep the explanation short.

%s`

const translatePromptFormat = `Translate the following passage into English. If it is already English, translate it into Tibetan. Give only the translation.

%s`

// ExplainSelection asks the provider for a short gloss of selected text
func (m *Model) ExplainSelection(text string) tea.Cmd {
	return m.lookup("explain", fmt.Sprintf(explainPromptFormat, text), text)
}

// TranslateSelection asks the provider for a translation of selected text
func (m *Model) TranslateSelection(text string) tea.Cmd {
	return m.lookup("translate", fmt.Sprintf(translatePromptFormat, text), text)
}

func (m *Model) lookup(kind, prompt, query string) tea.Cmd {
	prov := m.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		result, err := prov.Generate(ctx, prompt)
		return LookupResultMsg{Kind: kind, Query: query, Result: result, Err: err}
	}
}

// SpeakText synthesizes the text through the active provider, if it supports
// speech, and writes a playable WAV file into the temp dir.
func (m *Model) SpeakText(text string) tea.Cmd {
	speaker, ok := m.Provider.(Speaker)
	if !ok {
		return func() tea.Msg {
			return SpeechSynthesizedMsg{Err: fmt.Errorf("%s cannot synthesize speech", m.Provider.GetDisplayName())}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), speechTimeout)
		defer cancel()
		pcm, err := speaker.Synthesize(ctx, text)
		if err != nil {
			return SpeechSynthesizedMsg{Err: err}
		}
		path := config.GetSpeechFilePath()
		if err := writeWAV(path, pcm); err != nil {
			return SpeechSynthesizedMsg{Err: err}
		}
		return SpeechSynthesizedMsg{Path: path}
	}
}

// Speech synthesis output format: 24kHz mono signed 16-bit PCM.
const (
	speechSampleRate    = 24000
	speechChannels      = 1
	speechBitsPerSample = 16
)

// writeWAV wraps raw PCM samples in a RIFF/WAVE container
func writeWAV(path string, pcm []byte) error {
	if err := config.CreateTempDir(); err != nil {
		return err
	}

	var header [44]byte
	byteRate := speechSampleRate * speechChannels * speechBitsPerSample / 8
	blockAlign := speechChannels * speechBitsPerSample / 8

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], speechChannels)
	binary.LittleEndian.PutUint32(header[24:28], speechSampleRate)
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], speechBitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(header[:]); err != nil {
		return err
	}
	_, err = f.Write(pcm)
	return err
}
