// Package viewer ties loading, rendering and table reconstruction into the
// lifecycle of one open document.
//
// A [Viewer] is Empty until a file is selected, Loading while the bytes are
// parsed and Loaded afterwards. Once loaded it renders page 1 and, in the
// background, extracts every page and assembles the logical table. Page
// navigation only renders; it never repeats the extraction pass.
//
//	v, err := viewer.New(viewer.DefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer v.Close()
//
//	if err := v.Open(ctx, "amendment.pdf"); err != nil {
//	    return err
//	}
//	if err := v.WaitReady(ctx); err != nil {
//	    return err
//	}
//	fmt.Println(v.Table().ToMarkdown())
package viewer
