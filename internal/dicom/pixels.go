package dicom

import (
	"image"
	"image/color"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
)

// PixelBuffer is one native, uncompressed frame. Samples are interleaved
// (R, G, B per pixel for RGB). Exactly one of Data8 and Data16 is set,
// depending on BitsAllocated.
type PixelBuffer struct {
	Rows            int
	Cols            int
	SamplesPerPixel int
	BitsAllocated   int
	BitsStored      int
	Data8           []uint8
	Data16          []uint16
}

// GradientPixels builds the synthetic frame of instance n: every sample of
// column c equals (c + n) mod 256, masked to BitsStored when fewer than 8
// bits are stored.
func GradientPixels(img modalities.Imaging, instanceNumber int) PixelBuffer {
	p := PixelBuffer{
		Rows:            img.Rows,
		Cols:            img.Cols,
		SamplesPerPixel: img.SamplesPerPixel(),
		BitsAllocated:   img.BitsAllocated,
		BitsStored:      img.BitsStored,
	}
	size := p.Rows * p.Cols * p.SamplesPerPixel
	if p.BitsAllocated == 16 {
		p.Data16 = make([]uint16, size)
	} else {
		p.Data8 = make([]uint8, size)
	}

	mask := 0xff
	if p.BitsStored > 0 && p.BitsStored < 8 {
		mask = 1<<p.BitsStored - 1
	}
	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			v := ((col + instanceNumber) % 256) & mask
			for smp := 0; smp < p.SamplesPerPixel; smp++ {
				p.set(row, col, smp, v)
			}
		}
	}
	return p
}

func (p *PixelBuffer) index(row, col, sample int) int {
	return (row*p.Cols+col)*p.SamplesPerPixel + sample
}

func (p *PixelBuffer) set(row, col, sample, v int) {
	if p.Data16 != nil {
		p.Data16[p.index(row, col, sample)] = uint16(v)
		return
	}
	p.Data8[p.index(row, col, sample)] = uint8(v)
}

// At returns the stored value of one sample.
func (p *PixelBuffer) At(row, col, sample int) int {
	if p.Data16 != nil {
		return int(p.Data16[p.index(row, col, sample)])
	}
	return int(p.Data8[p.index(row, col, sample)])
}

// maxValue is the brightest storable value.
func (p *PixelBuffer) maxValue() int {
	return 1<<p.BitsStored - 1
}

// PixelDataInfo wraps the buffer as a single native frame for the codec.
func (p *PixelBuffer) PixelDataInfo() dicom.PixelDataInfo {
	pixels := p.Rows * p.Cols
	f := &frame.Frame{Encapsulated: false}
	if p.Data16 != nil {
		nf := frame.NewNativeFrame[uint16](16, p.Rows, p.Cols, pixels, p.SamplesPerPixel)
		copy(nf.RawData, p.Data16)
		f.NativeData = nf
	} else {
		nf := frame.NewNativeFrame[uint8](8, p.Rows, p.Cols, pixels, p.SamplesPerPixel)
		copy(nf.RawData, p.Data8)
		f.NativeData = nf
	}
	return dicom.PixelDataInfo{Frames: []*frame.Frame{f}}
}

// DrawLabel burns text into the frame, centered, white on a black outline,
// scaled to roughly 30% of the image width.
func (p *PixelBuffer) DrawLabel(text string) {
	if text == "" || p.Rows == 0 || p.Cols == 0 {
		return
	}
	face := basicfont.Face7x13
	baseWidth := font.MeasureString(face, text).Ceil()
	const baseHeight = 13

	textImg := image.NewAlpha(image.Rect(0, 0, baseWidth, baseHeight))
	drawer := &font.Drawer{
		Dst:  textImg,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{Y: fixed.I(baseHeight - 2)},
	}
	drawer.DrawString(text)

	scale := float64(p.Cols) * 0.3 / float64(baseWidth)
	scale = max(scale, 1)
	scaledW := int(float64(baseWidth) * scale)
	scaledH := int(float64(baseHeight) * scale)
	scaled := image.NewAlpha(image.Rect(0, 0, scaledW, scaledH))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), textImg, textImg.Bounds(), draw.Over, nil)

	posX := (p.Cols - scaledW) / 2
	posY := (p.Rows - scaledH) / 2
	outline := max(1, scaledH/10)
	bright := p.maxValue()

	paint := func(x, y, v int) {
		if x < 0 || x >= p.Cols || y < 0 || y >= p.Rows {
			return
		}
		for smp := 0; smp < p.SamplesPerPixel; smp++ {
			p.set(y, x, smp, v)
		}
	}

	for sy := 0; sy < scaledH; sy++ {
		for sx := 0; sx < scaledW; sx++ {
			if scaled.AlphaAt(sx, sy).A == 0 {
				continue
			}
			for dy := -outline; dy <= outline; dy++ {
				for dx := -outline; dx <= outline; dx++ {
					if dx*dx+dy*dy <= outline*outline {
						paint(posX+sx+dx, posY+sy+dy, 0)
					}
				}
			}
		}
	}
	for sy := 0; sy < scaledH; sy++ {
		for sx := 0; sx < scaledW; sx++ {
			if a := scaled.AlphaAt(sx, sy).A; a > 0 {
				paint(posX+sx, posY+sy, bright*int(a)/255)
			}
		}
	}
}
