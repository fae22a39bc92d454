// Package md2chm compiles a directory tree of Markdown documents into a
// Microsoft Compiled HTML Help (.chm) file.
//
// # Quick Start
//
//	c, err := md2chm.NewCompiler(md2chm.WithStyle("technical"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Compile(ctx, md2chm.Input{
//	    Source:      "docs",
//	    Destination: "build/help",
//	    Title:       "Manual",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Artifact) // build/help/Manual.chm
//
// # Compilation Pipeline
//
// Compile runs these steps in order and stops at the first failure:
//
//  1. Check the source directory and list its documents (.md, .markdown)
//  2. Render every document to an HTML page mirrored under the destination
//  3. Build the contents tree from the generated page paths
//  4. Write the contents file (<title>.hhc)
//  5. Write the project file (<title>.hhp)
//  6. Run the external help compiler against the project file
//  7. Check that the compiled file (<title>.chm) exists
//
// Page file names have '#' and '%' replaced by sentinel tokens, because the
// help compiler cannot carry those characters in file references. Contents
// entries show the decoded names.
//
// Files written before a failure are left in place. Callers that rebuild
// into the same destination clear it first.
//
// # External Compiler
//
// The compiler is located with WithCompilerPath or, by default, in the HTML
// Help Workshop install directory on Windows and on PATH (hhc, hhc.exe,
// chmcmd). Its exit status is logged but never trusted: the compiled file
// existing afterwards is the only success signal. The compiler runs without
// a timeout and cannot be interrupted once started.
//
// # Parallel Rendering
//
// Documents are rendered by WithWorkers goroutines. The page list keeps the
// order in which documents were found, so the output does not depend on the
// number of workers.
package md2chm
