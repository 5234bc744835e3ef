package texconv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// maxFileSize is the largest file a scan will look at.
const maxFileSize = 64 << 20

func (t *Texconv) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			if info.Size() > maxFileSize {
				return nil
			}

			switch FormatOf(file) {
			case FormatTGA, FormatTIM2:
			default:
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (t *Texconv) fileWorker(ctx context.Context, in <-chan string) (<-chan *Entry, <-chan error, error) {
	out := make(chan *Entry)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			b, sum, err := readFileSum(file)
			if err != nil {
				errc <- err
				return
			}

			tex, err := Load(b, 0)
			if err != nil {
				t.logger.Printf("Skipping \"%s\": %s\n", file, err)
				continue
			}

			select {
			case out <- newEntry(file, sum, tex):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

func (t *Texconv) catalogWriter(ctx context.Context, in <-chan *Entry) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for e := range in {
			if _, err := t.db.Add(e); err != nil {
				errc <- err
				return
			}
			t.logger.Printf("Added \"%s\" with SHA1 \"%s\"\n", e.Path, e.SHA1)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func mergeEntries(ctx context.Context, cs ...<-chan *Entry) <-chan *Entry {
	var wg sync.WaitGroup
	out := make(chan *Entry)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan *Entry) {
			defer wg.Done()
			for e := range c {
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and records every TGA and TIM2 file it can decode in the
// catalogue, using the given number of workers to read and decode files.
func (t *Texconv) Scan(ctx context.Context, path string, workers int) error {
	if t.db == nil {
		return errNoCatalog
	}
	if workers < 1 {
		workers = 1
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var (
		errcList []<-chan error
		outList  []<-chan *Entry
	)

	files, errc, err := t.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		out, errc, err := t.fileWorker(ctx, files)
		if err != nil {
			return err
		}
		outList = append(outList, out)
		errcList = append(errcList, errc)
	}

	errc, err = t.catalogWriter(ctx, mergeEntries(ctx, outList...))
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
