// lantern-dump builds a small reference convolutional network and dumps the
// resulting graph module, one node per line. It doubles as a smoke test of
// the node factories and shape inference.
package main

import (
	"flag"
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/lanternml/lantern/graph"
	"github.com/lanternml/lantern/types/dtypes"
	"github.com/lanternml/lantern/types/shapes"
	"github.com/lanternml/lantern/types/tensors"
	"k8s.io/klog/v2"
)

var flagBatchSize = flag.Int("batch_size", 8, "Batch size of the generated network.")

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	err := exceptions.TryCatch[error](func() { run(*flagBatchSize) })
	if err != nil {
		klog.Exitf("lantern-dump failed: %+v", err)
	}
}

// weight creates a private trainable variable with Xavier initialization.
func weight(m *graph.Module, name string, dims ...int) graph.NodeValue {
	payload := tensors.FromShape(shapes.Make(dtypes.Float32, dims...))
	return m.NewVariableWithInit(name, payload, graph.VisibilityPrivate, true,
		graph.InitXavier, float64(payload.Size()))
}

func run(batchSize int) {
	m := graph.New("mnist-convnet")
	defer m.Finalize()

	input := m.NewPlaceholder("input",
		m.TypeOf(dtypes.Float32, batchSize, 28, 28, 1), false)
	selected := m.NewPlaceholder("selected",
		m.TypeOf(dtypes.Int64, batchSize, 1), false)

	conv1 := m.NewConvolution("conv1", input,
		weight(m, "conv1.filter", 8, 5, 5, 1), weight(m, "conv1.bias", 8),
		5 /*kernel*/, 1 /*stride*/, 2 /*pad*/, 8 /*depth*/)
	relu1 := m.NewRelu("relu1", conv1)
	pool1 := m.NewPool("pool1", graph.PoolMax, relu1, 2, 2, 0)

	conv2 := m.NewConvolution("conv2", pool1,
		weight(m, "conv2.filter", 16, 3, 3, 8), weight(m, "conv2.bias", 16),
		3, 1, 1, 16)
	relu2 := m.NewRelu("relu2", conv2)
	pool2 := m.NewPool("pool2", graph.PoolMax, relu2, 2, 2, 0)

	flat := m.NewReshape("flatten", pool2, []int{batchSize, 7 * 7 * 16})
	fc := m.NewFullyConnected("fc", flat,
		weight(m, "fc.filter", 10, 7*7*16), weight(m, "fc.bias", 10), 10)
	m.NewSoftMax("softmax", fc, selected)

	fmt.Println(m)
	klog.Infof("built module %q: %d nodes, %d interned types",
		m.Name(), m.NumNodes(), m.NumTypes())
}
