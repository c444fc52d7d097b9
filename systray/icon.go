package systray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 32

var (
	iconFill   = color.NRGBA{R: 0x6a, G: 0x1b, B: 0x9a, A: 0xff}
	iconAccent = color.NRGBA{R: 0xff, G: 0xd5, B: 0x4f, A: 0xff}
)

// Icon returns the tray icon in the format the current platform expects:
// ICO on Windows, PNG elsewhere.
func Icon() []byte {
	data, err := iconPNG()
	if err != nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return wrapICO(data, iconSize)
	}
	return data
}

// iconPNG draws a filled circle with a "J" shaped accent
func iconPNG() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	c := float64(iconSize-1) / 2
	r := c - 1
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy > r*r {
				continue
			}
			img.SetNRGBA(x, y, iconFill)
		}
	}

	// Stem and hook of the J
	for y := 8; y < 22; y++ {
		for x := 17; x < 21; x++ {
			img.SetNRGBA(x, y, iconAccent)
		}
	}
	for y := 20; y < 24; y++ {
		for x := 11; x < 21; x++ {
			img.SetNRGBA(x, y, iconAccent)
		}
	}
	for y := 17; y < 21; y++ {
		for x := 11; x < 15; x++ {
			img.SetNRGBA(x, y, iconAccent)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapICO packs a single PNG image into an ICO container
func wrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16

	var buf bytes.Buffer
	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // type: icon
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // image count

	// ICONDIRENTRY
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0) // palette
	buf.WriteByte(0) // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // color planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
	binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(&buf, binary.LittleEndian, uint32(headerLen))

	buf.Write(pngData)
	return buf.Bytes()
}
