package mpm

import "testing"

func TestRender_SplatsParticles(t *testing.T) {
	s := newTestSim(t, quietParams(10, 4, 1))
	f := NewFrame(100, 100, 3)
	s.Render(f)

	// scale 10: (4,4) -> (40,40), (5,5) -> (50,50)
	for _, px := range [][2]int{{40, 40}, {50, 40}, {40, 50}, {50, 50}} {
		if got := f.At(px[0], px[1]); got != 255 {
			t.Errorf("pixel %v = %d, want 255", px, got)
		}
	}
	lit := 0
	for i := 0; i < len(f.Pix); i += f.Channels {
		if f.Pix[i] != 0 {
			lit++
		}
	}
	if lit != 4 {
		t.Errorf("%d pixels lit, want 4", lit)
	}
}

func TestRender_DoesNotMutateSimulator(t *testing.T) {
	s := newTestSim(t, quietParams(16, 9, 1))
	s.Step()
	before := s.Positions(nil)
	stats := s.Stats()

	s.Render(NewFrame(64, 64, 1))

	for i, p := range s.Positions(nil) {
		if p != before[i] {
			t.Fatalf("particle %d moved during render", i)
		}
	}
	if s.Stats() != stats {
		t.Error("stats changed during render")
	}
}

func TestFrame_SetOutOfRangeIgnored(t *testing.T) {
	f := NewFrame(4, 4, 0)
	if f.Channels != 3 {
		t.Fatalf("default channels = %d, want 3", f.Channels)
	}
	f.Set(-1, 0, 255)
	f.Set(4, 4, 255)
	f.Set(0, 10, 255)
	for _, v := range f.Pix {
		if v != 0 {
			t.Fatal("out of range Set wrote a pixel")
		}
	}
	f.Set(1, 2, 7)
	off := (2*4 + 1) * 3
	if f.Pix[off] != 7 || f.Pix[off+1] != 7 || f.Pix[off+2] != 7 {
		t.Errorf("pixel (1,2) = %v", f.Pix[off:off+3])
	}
	f.Clear()
	if f.At(1, 2) != 0 {
		t.Error("Clear left pixel set")
	}
}

func TestFrame_ImageFlip(t *testing.T) {
	f := NewFrame(3, 2, 4)
	f.Set(0, 0, 200)

	up := f.Image(false)
	if up.RGBAAt(0, 0).R != 200 {
		t.Error("unflipped image should keep row 0 on top")
	}
	flipped := f.Image(true)
	if flipped.RGBAAt(0, 1).R != 200 || flipped.RGBAAt(0, 0).R != 0 {
		t.Error("flipped image should move row 0 to the bottom")
	}
	if flipped.RGBAAt(0, 1).A != 255 {
		t.Error("alpha should be opaque")
	}
}

func TestFrame_RGBA(t *testing.T) {
	f := NewFrame(2, 2, 1)
	f.Set(1, 0, 90)
	px := f.RGBA(nil)
	if len(px) != 4 {
		t.Fatalf("got %d pixels, want 4", len(px))
	}
	if px[1].R != 90 || px[1].G != 90 || px[1].B != 90 || px[1].A != 255 {
		t.Errorf("pixel 1 = %+v", px[1])
	}
	if px[0].R != 0 || px[0].A != 255 {
		t.Errorf("pixel 0 = %+v", px[0])
	}

	rgb := NewFrame(1, 1, 4)
	rgb.Pix[0], rgb.Pix[1], rgb.Pix[2] = 1, 2, 3
	if got := rgb.RGBA(px)[0]; got.R != 1 || got.G != 2 || got.B != 3 {
		t.Errorf("rgba pixel = %+v", got)
	}
}
