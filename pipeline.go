package unpacker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"

	"github.com/Huzzahd/fortune-summoners-unpacker/resource"
)

const numWorkers = 10

// convertFunc turns the whole contents of one input file into the whole
// contents of its output file.
type convertFunc func(data []byte) ([]byte, error)

// Summary reports the outcome of a batch once the pipeline has drained.
type Summary struct {
	mu        sync.Mutex
	Converted int
	Failed    int
}

func (s *Summary) converted() {
	s.mu.Lock()
	s.Converted++
	s.mu.Unlock()
}

func (s *Summary) failed() {
	s.mu.Lock()
	s.Failed++
	s.mu.Unlock()
}

// Unpack converts every packed resource in paths into a bitmap file. A
// single file failing never aborts the batch; failures are logged and
// counted in the summary.
func (u *Unpacker) Unpack(paths []string, opts Options) (*Summary, error) {
	d := &resource.Decoder{
		Lenient:        opts.Lenient,
		IncludePalette: opts.IncludePalette,
	}
	return u.run(paths, ".bmp", opts, d.Decode)
}

// Pack converts bitmap files in paths into canonical packed resources.
// Packing needs an image decoder; without one every single conversion
// would fail, so the batch is rejected outright.
func (u *Unpacker) Pack(paths []string, opts Options) (*Summary, error) {
	if u.decodeImage == nil {
		return nil, resource.ErrUnsupportedFunction
	}

	return u.run(paths, ".bin", opts, func(data []byte) ([]byte, error) {
		m, err := u.decodeImage(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}

		var b bytes.Buffer
		err = resource.Encode(&b, m)
		if opts.Quantize && errors.Is(err, resource.ErrUnsupportedBitmap) {
			b.Reset()
			err = resource.Encode(&b, resource.Quantize(m))
		}
		if err != nil {
			return nil, err
		}

		return b.Bytes(), nil
	})
}

func (u *Unpacker) run(paths []string, ext string, opts Options, convert convertFunc) (*Summary, error) {
	files, err := u.gatherInputs(paths)
	if err != nil {
		return nil, err
	}

	jobs := u.planOutputs(files, ext, opts)

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	summary := new(Summary)

	var errcList []<-chan error

	in, errc, err := u.queueJobs(ctx, jobs)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := u.convertWorker(in, convert, summary)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	return summary, nil
}

func (u *Unpacker) queueJobs(ctx context.Context, jobs []job) (<-chan job, <-chan error, error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, j := range jobs {
			select {
			case out <- j:
			case <-ctx.Done():
				errc <- errors.New("conversion cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (u *Unpacker) convertWorker(in <-chan job, convert convertFunc, summary *Summary) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			if err := convertFile(j, convert); err != nil {
				u.logger.Printf("%s: %v", j.in, err)
				summary.failed()
				continue
			}
			u.logger.Printf("%s -> %s", j.in, j.out)
			summary.converted()
		}
	}()
	return errc, nil
}

func convertFile(j job, convert convertFunc) error {
	data, err := os.ReadFile(j.in)
	if err != nil {
		return err
	}

	out, err := convert(data)
	if err != nil {
		return err
	}

	return os.WriteFile(j.out, out, 0644)
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
