package renderer

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform mat4 uNormalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uNormalMatrix) * aNormal;
	gl_Position = uProj * uView * world;
}
`

// Phong shading with one attenuated point light.
const fragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;

uniform vec4 uColor;
uniform vec3 uLightPos;
uniform vec3 uLightColor;
uniform float uLightSize;
uniform vec3 uCameraPos;
uniform float uAmbient;
uniform float uDiffuse;
uniform float uSpecular;
uniform float uSmoothness;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	vec3 toLight = uLightPos - vWorldPos;
	float dist = length(toLight);
	vec3 l = toLight / dist;
	vec3 v = normalize(uCameraPos - vWorldPos);
	vec3 h = normalize(l + v);

	// Flat or degenerate normals fall back to ambient only.
	float diffuse = 0.0;
	float specular = 0.0;
	if (dot(n, n) > 0.0) {
		diffuse = max(dot(n, l), 0.0);
		specular = pow(max(dot(n, h), 0.0), uSmoothness);
	}

	float attenuation = 1.0 / (1.0 + dist * dist / uLightSize);
	vec3 light = uLightColor * attenuation *
		(uColor.rgb * uDiffuse * diffuse + vec3(uSpecular * specular));

	FragColor = vec4(uColor.rgb * uAmbient + light, uColor.a);
}
`
