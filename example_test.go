package ocrknn_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hupe1980/ocrknn"
	"github.com/hupe1980/ocrknn/idx"
	"github.com/hupe1980/ocrknn/testutil"
)

func pixel(v uint8) idx.Image {
	img := idx.NewImage(1, 1)
	img.Pixels[0][0] = v
	return img
}

// Example_predict classifies one query against three single-pixel references
// at distances 5, 1 and 2.
func Example_predict() {
	train := &ocrknn.Set{
		Images: []idx.Image{pixel(5), pixel(1), pixel(2)},
		Labels: []idx.Label{0, 1, 1},
	}

	for _, k := range []int{1, 3} {
		p, err := ocrknn.New(ocrknn.WithK(k))
		if err != nil {
			log.Fatal(err)
		}

		labels, err := p.Predict(context.Background(), train, []idx.Image{pixel(0)})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("k=%d: %v\n", k, labels)
	}
	// Output:
	// k=1: [1]
	// k=3: [1]
}

// Example_run loads a training and a test dataset from disk and evaluates.
func Example_run() {
	dir, err := os.MkdirTemp("", "ocrknn-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	rng := testutil.NewRNG(42)
	images, labels := rng.Digits(40, 8, 8, 4, 0.05)

	trainImages, trainLabels, err := testutil.WriteDataset(dir, "train", images[:32], labels[:32])
	if err != nil {
		log.Fatal(err)
	}
	testImages, testLabels, err := testutil.WriteDataset(dir, "test", images[32:], labels[32:])
	if err != nil {
		log.Fatal(err)
	}

	p, err := ocrknn.New(ocrknn.WithK(3))
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	res, err := p.Run(context.Background(),
		ocrknn.Source{Name: "train", Images: trainImages, Labels: trainLabels},
		ocrknn.Source{Name: "test", Images: testImages, Labels: testLabels},
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Predictions)
	fmt.Printf("accuracy: %.2f\n", res.Report.Accuracy)
	// Output:
	// [0 1 2 3 0 1 2 3]
	// accuracy: 1.00
}
