package kv

import (
	"bytes"
	"fmt"
	"io"

	"github.com/kelindar/binary"
	"github.com/klauspost/compress/zstd"

	"lintang/trafficsim/pkg/config"
)

func encodeNetwork(network config.Network) ([]byte, error) {
	bb, err := binary.Marshal(network)
	if err != nil {
		return nil, fmt.Errorf("encode network %q: %w", network.Name, err)
	}

	var compressed bytes.Buffer
	if err := compressData(bb, &compressed); err != nil {
		return nil, err
	}
	return compressed.Bytes(), nil
}

func decodeNetwork(bbCompressed []byte) (config.Network, error) {
	var bb bytes.Buffer
	if err := decompressData(bbCompressed, &bb); err != nil {
		return config.Network{}, err
	}

	var network config.Network
	if err := binary.Unmarshal(bb.Bytes(), &network); err != nil {
		return config.Network{}, fmt.Errorf("decode network: %w", err)
	}
	return network, nil
}

func compressData(inData []byte, bbufOut *bytes.Buffer) error {
	encoder, err := zstd.NewWriter(bbufOut, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	_, err = io.Copy(encoder, bytes.NewReader(inData))
	if err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

func decompressData(inData []byte, out io.Writer) error {
	d, err := zstd.NewReader(bytes.NewReader(inData))
	if err != nil {
		return err
	}
	defer d.Close()

	_, err = io.Copy(out, d)
	return err
}
