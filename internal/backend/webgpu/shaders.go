package webgpu

// WGSL compute shaders. All matrices are column-major (Fortran order),
// matching the backend's GEMM contract.

// gemmTileSize is the square workgroup edge for the GEMM shader.
const gemmTileSize = 16

// gemmShader computes result = op(a) x op(b) for column-major matrices
// with explicit leading dimensions. op is selected per operand by the
// trans_a/trans_b flags (0 = as stored, 1 = transposed).
const gemmShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    m: u32,
    n: u32,
    k: u32,
    lda: u32,
    ldb: u32,
    ldc: u32,
    trans_a: u32,
    trans_b: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    let j = global_id.y;

    if (i >= params.m || j >= params.n) {
        return;
    }

    var sum: f32 = 0.0;
    for (var p: u32 = 0u; p < params.k; p = p + 1u) {
        var av: f32;
        if (params.trans_a == 0u) {
            av = a[i + p * params.lda];
        } else {
            av = a[p + i * params.lda];
        }
        var bv: f32;
        if (params.trans_b == 0u) {
            bv = b[p + j * params.ldb];
        } else {
            bv = b[j + p * params.ldb];
        }
        sum = sum + av * bv;
    }

    result[i + j * params.ldc] = sum;
}
`

// mulShader performs element-wise multiplication: result = a * b.
const mulShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = a[idx] * b[idx];
    }
}
`

// sumShader reduces the whole input into result[0]. One invocation is
// enough for the short vectors the degenerate dot path produces.
const sumShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(1)
fn main() {
    var sum: f32 = 0.0;
    for (var i: u32 = 0u; i < params.size; i = i + 1u) {
        sum = sum + input[i];
    }
    result[0] = sum;
}
`
