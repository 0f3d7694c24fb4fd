// Package render drives page rendering onto a single display surface.
//
// A [Controller] owns one [Surface] and at most one in-flight render
// [Session]. Starting a render cancels the active session and waits for it
// to stop before the new one begins. Each page is drawn into an offscreen
// frame; the frame replaces the surface only if its session is still the
// current one when drawing finishes, so a superseded render can never
// overwrite a newer page.
//
//	c := render.NewController(render.DefaultConfig())
//	c.SetPageCount(doc.NumPages())
//	session, err := c.RenderPage(ctx, page, 1)
//	if err != nil {
//	    return err
//	}
//	if err := session.Wait(ctx); err != nil && !errors.Is(err, render.ErrRenderCancelled) {
//	    return err
//	}
//	img, n := c.Surface().Snapshot()
//
// Cancelled renders report [ErrRenderCancelled], which callers treat as a
// normal outcome.
package render
