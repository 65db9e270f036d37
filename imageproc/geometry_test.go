package imageproc_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/imageproc"
)

func TestResize(t *testing.T) {
	t.Parallel()

	t.Run("single dimension preserves aspect", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxWidth:       400,
			PreserveAspect: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 400, d.Width)
		assert.Equal(t, 200, d.Height)
		assert.Equal(t, image.Rect(0, 0, 800, 400), d.Src)
		assert.Equal(t, image.Rect(0, 0, 400, 200), d.Dst)
	})

	t.Run("height only", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxHeight:      100,
			PreserveAspect: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 200, d.Width)
		assert.Equal(t, 100, d.Height)
	})

	t.Run("fit within box uses the binding factor", func(t *testing.T) {
		t.Parallel()
		// Width factor 0.25 binds before height factor 0.5
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxWidth:       200,
			MaxHeight:      200,
			PreserveAspect: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 200, d.Width)
		assert.Equal(t, 100, d.Height)
	})

	t.Run("equal factors use the box directly", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxWidth:       400,
			MaxHeight:      200,
			PreserveAspect: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 400, d.Width)
		assert.Equal(t, 200, d.Height)
	})

	t.Run("aspect ignored when disabled", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxWidth:  300,
			MaxHeight: 300,
		})
		require.NoError(t, err)
		assert.Equal(t, 300, d.Width)
		assert.Equal(t, 300, d.Height)
	})

	t.Run("no upscaling without expand", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxWidth:       1600,
			PreserveAspect: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 800, d.Width)
		assert.Equal(t, 400, d.Height)
	})

	t.Run("expand allows upscaling", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{
			MaxWidth:       1600,
			Expand:         true,
			PreserveAspect: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1600, d.Width)
		assert.Equal(t, 800, d.Height)
	})

	t.Run("no dimensions is an error", func(t *testing.T) {
		t.Parallel()
		_, err := imageproc.Resize(800, 400, imageproc.ResizeOptions{})
		assert.ErrorIs(t, err, imageproc.ErrInvalidOptions)
	})

	t.Run("non-positive original rejected", func(t *testing.T) {
		t.Parallel()
		_, err := imageproc.Resize(0, 400, imageproc.ResizeOptions{MaxWidth: 100})
		assert.ErrorIs(t, err, imageproc.ErrInvalidGeometry)
	})
}

func TestScale(t *testing.T) {
	t.Parallel()

	t.Run("half", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Scale(800, 400, 50)
		require.NoError(t, err)
		assert.Equal(t, 400, d.Width)
		assert.Equal(t, 200, d.Height)
	})

	t.Run("dimensions round independently", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Scale(101, 99, 50)
		require.NoError(t, err)
		assert.Equal(t, 51, d.Width) // 50.5 rounds up
		assert.Equal(t, 50, d.Height)
	})

	t.Run("enlarge", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Scale(100, 100, 150)
		require.NoError(t, err)
		assert.Equal(t, 150, d.Width)
		assert.Equal(t, 150, d.Height)
	})

	t.Run("zero percent rejected", func(t *testing.T) {
		t.Parallel()
		_, err := imageproc.Scale(800, 400, 0)
		assert.ErrorIs(t, err, imageproc.ErrInvalidOptions)
	})

	t.Run("collapsing scale rejected", func(t *testing.T) {
		t.Parallel()
		_, err := imageproc.Scale(1, 1, 0.1)
		assert.ErrorIs(t, err, imageproc.ErrInvalidGeometry)
	})
}

func TestCrop(t *testing.T) {
	t.Parallel()

	t.Run("default square crop centered", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(800, 400, imageproc.CropOptions{Anchor: imageproc.AnchorCenter})
		require.NoError(t, err)
		assert.Equal(t, 400, d.Width)
		assert.Equal(t, 400, d.Height)
		assert.Equal(t, image.Rect(200, 0, 600, 400), d.Src)
		assert.Equal(t, image.Rect(0, 0, 400, 400), d.Dst)
	})

	t.Run("left anchor", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(800, 400, imageproc.CropOptions{Anchor: imageproc.AnchorLeft})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 400, 400), d.Src)
	})

	t.Run("right anchor", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(800, 400, imageproc.CropOptions{Anchor: imageproc.AnchorRight})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(400, 0, 800, 400), d.Src)
	})

	t.Run("portrait crops along the vertical axis", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(400, 800, imageproc.CropOptions{Anchor: imageproc.AnchorCenter})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 200, 400, 600), d.Src)
		assert.Equal(t, 400, d.Width)
		assert.Equal(t, 400, d.Height)
	})

	t.Run("center offset rounds up on odd slack", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(5, 4, imageproc.CropOptions{Anchor: imageproc.AnchorCenter})
		require.NoError(t, err)
		// slack 1, center offset ceil(1/2) = 1
		assert.Equal(t, 1, d.Src.Min.X)
	})

	t.Run("explicit square target", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(800, 400, imageproc.CropOptions{
			Width:  200,
			Height: 200,
			Anchor: imageproc.AnchorCenter,
		})
		require.NoError(t, err)
		// Fit into 200x200 gives 200x100; window side 100 maps back to 400
		assert.Equal(t, 200, d.Width)
		assert.Equal(t, 200, d.Height)
		assert.Equal(t, 400, d.Src.Dx())
		assert.Equal(t, 400, d.Src.Dy())
		assert.Equal(t, 200, d.Src.Min.X)
	})

	t.Run("square original needs no window offset", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Crop(600, 600, imageproc.CropOptions{Anchor: imageproc.AnchorCenter})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 600, 600), d.Src)
		assert.Equal(t, 600, d.Width)
	})

	t.Run("non-positive original rejected", func(t *testing.T) {
		t.Parallel()
		_, err := imageproc.Crop(0, 0, imageproc.CropOptions{})
		assert.ErrorIs(t, err, imageproc.ErrInvalidGeometry)
	})
}

func TestFlip(t *testing.T) {
	t.Parallel()

	t.Run("horizontal", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Flip(800, 400, imageproc.AxisHorizontal)
		require.NoError(t, err)
		assert.True(t, d.FlipH)
		assert.False(t, d.FlipV)
		assert.Equal(t, 800, d.Width)
		assert.Equal(t, 400, d.Height)
	})

	t.Run("vertical", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Flip(800, 400, imageproc.AxisVertical)
		require.NoError(t, err)
		assert.False(t, d.FlipH)
		assert.True(t, d.FlipV)
	})

	t.Run("both", func(t *testing.T) {
		t.Parallel()
		d, err := imageproc.Flip(800, 400, imageproc.AxisBoth)
		require.NoError(t, err)
		assert.True(t, d.FlipH)
		assert.True(t, d.FlipV)
	})

	t.Run("unknown axis", func(t *testing.T) {
		t.Parallel()
		_, err := imageproc.Flip(800, 400, imageproc.Axis("diagonal"))
		assert.ErrorIs(t, err, imageproc.ErrInvalidOptions)
	})
}
