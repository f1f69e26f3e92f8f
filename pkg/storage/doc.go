// Package storage writes downloaded tracks into the output directory.
//
// A track's file name is derived from its artist and title only, so the
// presence of that file is the record that the track was downloaded: Exists
// is checked before every download and nothing is ever overwritten or
// verified. Save streams the body into a temporary file and renames it into
// place, so an interrupted write never leaves a file that later looks
// complete.
//
//	manager, err := storage.NewManager("mp3s")
//	if err != nil {
//	    return err
//	}
//
//	name := storage.TrackFilename("Ellie Goulding", "Lights (Shook Remix)")
//	if ok, _ := manager.Exists(name); !ok {
//	    err = manager.Save(body, name)
//	}
package storage
