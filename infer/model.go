package infer

// Model abstracts a synchronous inference engine. Inputs and Outputs
// describe the named tensors the model expects; Run reads every input
// binding and writes every output binding before returning.
type Model interface {
	Inputs() []TensorDesc
	Outputs() []TensorDesc
	Run(inputs, outputs []Binding) error
}
