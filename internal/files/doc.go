// Package files discovers sample and record files on disk.
//
// Discovery resolves relative directories against a base path and returns
// matching files sorted by name, so batch runs visit files in a stable order.
//
//	discovery := files.NewDiscovery("")
//	found, err := discovery.FindByExtensions("testdata", ".json", ".csv")
//	if err != nil {
//	    return err
//	}
//	for _, f := range found {
//	    fmt.Println(f.Path)
//	}
package files
