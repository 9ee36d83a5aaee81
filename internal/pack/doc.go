// Package pack reads modpack archives.
//
// A pack is a zip containing a manifest.json (the ordered mod list plus
// pack metadata) and an overrides directory whose contents are copied
// verbatim into the install directory.
//
//	p, err := pack.Open("Some+Pack-1.0.zip")
//	if err != nil {
//	    // errors.Is(err, pack.ErrInvalidArchive)
//	}
//	defer p.Close()
//
//	refs := p.References()
//	n, err := p.ExtractOverrides(ctx, installDir)
package pack
