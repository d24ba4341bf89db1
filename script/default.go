package script

// Default is the script shown when no script file is given: a raymarched,
// breathing sphere. It exercises every uniform the renderer provides.
const Default = `var animated = $true

echo '//kage:unit pixels

package main

var Time float
var Rotation vec2
var Zoom float
var ViewType float
var Resolution vec2

const maxSteps = 96

func sdf(p vec3) float {
	return length(p) - (0.8 + 0.1*sin(Time*2.0))
}

func rotateX(p vec3, a float) vec3 {
	c := cos(a)
	s := sin(a)
	return vec3(p.x, c*p.y-s*p.z, s*p.y+c*p.z)
}

func rotateY(p vec3, a float) vec3 {
	c := cos(a)
	s := sin(a)
	return vec3(c*p.x+s*p.z, p.y, -s*p.x+c*p.z)
}

func normal(p vec3) vec3 {
	e := vec2(0.001, 0)
	return normalize(vec3(
		sdf(p+e.xyy)-sdf(p-e.xyy),
		sdf(p+e.yxy)-sdf(p-e.yxy),
		sdf(p+e.yyx)-sdf(p-e.yyx),
	))
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := (dstPos.xy - Resolution*0.5) / Resolution.y
	uv = vec2(uv.x, -uv.y)

	pitch := Rotation.y * 6.2831853
	yaw := Rotation.x * 6.2831853
	ro := rotateY(rotateX(vec3(0, 0, Zoom*2.0), pitch), yaw)
	rd := rotateY(rotateX(normalize(vec3(uv, -1.5)), pitch), yaw)

	d := 0.0
	steps := 0.0
	hit := false
	for i := 0; i < maxSteps; i++ {
		dist := sdf(ro + rd*d)
		if dist < 0.001 {
			hit = true
			break
		}
		d += dist
		steps += 1.0
		if d > 100.0 {
			break
		}
	}

	if ViewType == 1.0 {
		return vec4(vec3(steps/maxSteps), 1)
	}
	if ViewType == 2.0 {
		return vec4(vec3(clamp(abs(sdf(ro+rd*d))*10.0, 0, 1)), 1)
	}
	if !hit {
		return vec4(0.08, 0.08, 0.1, 1)
	}
	n := normal(ro + rd*d)
	light := max(dot(n, normalize(vec3(1, 1, 1))), 0.0)
	return vec4(vec3(0.2+0.8*light), 1)
}'
`
