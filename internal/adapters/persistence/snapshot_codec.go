package persistence

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/andrescamacho/bizsim-go/internal/application/simulation"
)

// snapshotHeader is the first line of every encoded snapshot so tools can
// identify a file without decoding the body
type snapshotHeader struct {
	Version int    `json:"version"`
	Clock   string `json:"clock"`
}

// EncodeSnapshot writes a header line followed by the JSON body, all inside
// one zstd frame
func EncodeSnapshot(w io.Writer, snap simulation.Snapshot) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, _ := json.Marshal(snapshotHeader{Version: snap.Version, Clock: snap.Clock.String()})
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// DecodeSnapshot reads what EncodeSnapshot wrote
func DecodeSnapshot(r io.Reader) (simulation.Snapshot, error) {
	var snap simulation.Snapshot
	dec, err := zstd.NewReader(r)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	return snap, nil
}

func encodeSnapshotBytes(snap simulation.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
