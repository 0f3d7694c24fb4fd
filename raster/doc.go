// Package raster draws page text runs onto images.
//
// A [Rasterizer] paints the positioned runs of a page onto any draw.Image
// using a TrueType face, placing each run at the device coordinates given by
// a [model.Viewport]. The result is a faithful enough picture of a text-only
// page to display it or to feed it to an OCR engine.
//
//	r, err := raster.NewRasterizer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frame := raster.NewFrame(viewport)
//	err = r.Draw(ctx, frame, viewport, runs)
//
// Helpers [Upscale] and [ToGray] prepare frames for recognition.
package raster
